// Package util provides shared file helpers for the CLI.
package util

import (
	"regexp"
	"strings"
)

// unsafeRun matches runs of characters outside [a-z0-9_].
var unsafeRun = regexp.MustCompile(`[^a-z0-9_]+`)

// TempPrefix turns a bundle name into a token for os.MkdirTemp patterns.
// The name is lowercased, each run of other characters becomes a single
// hyphen, and edge hyphens are dropped. Path separators never survive.
func TempPrefix(name string) string {
	return strings.Trim(unsafeRun.ReplaceAllString(strings.ToLower(name), "-"), "-")
}
