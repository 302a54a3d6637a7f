// Package ui provides interactive input components.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Confirmer asks the operator a single yes/no question.
//
// Deployers call Confirm before overwriting a populated destination.
// Any answer other than an explicit yes must return false.
type Confirmer interface {
	Confirm(prompt string) bool
}

// AutoConfirmer answers every prompt with a fixed value. It backs the
// --yes flag.
type AutoConfirmer bool

// Confirm returns the fixed answer.
func (a AutoConfirmer) Confirm(prompt string) bool {
	if a {
		PrintDim("  %s (y/N): y (auto)", prompt)
	}
	return bool(a)
}

// ReaderConfirmer reads answers line by line from an io.Reader.
type ReaderConfirmer struct {
	reader *bufio.Reader
}

// NewReaderConfirmer wraps r for line-based yes/no answers.
func NewReaderConfirmer(r io.Reader) *ReaderConfirmer {
	return &ReaderConfirmer{reader: bufio.NewReader(r)}
}

// Confirm prints the prompt with a [y/N] suffix and reads one line.
// Read errors (including EOF) count as "no".
func (c *ReaderConfirmer) Confirm(prompt string) bool {
	outMu.Lock()
	fmt.Fprintf(out, "%s %s ", InfoStyle.Render(prompt), AccentStyle.Render("(y/N):"))
	outMu.Unlock()

	input, err := c.reader.ReadString('\n')
	if err != nil && input == "" {
		Println()
		return false
	}
	return isYes(input)
}

// NewStdinConfirmer returns a confirmer bound to the process stdin.
//
// When stdin is not a terminal the returned confirmer declines every
// prompt, so unattended runs skip populated targets instead of blocking.
func NewStdinConfirmer() Confirmer {
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return nonInteractive{}
	}
	return NewReaderConfirmer(os.Stdin)
}

type nonInteractive struct{}

func (nonInteractive) Confirm(prompt string) bool {
	PrintDim("  %s (y/N): n (stdin is not a terminal, pass --yes or --force)", prompt)
	return false
}

func isYes(input string) bool {
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}
