package source

import (
	"os"
	"path/filepath"
)

// repoMarkers identify a repository root when walking up from a directory.
var repoMarkers = []string{"dbcli.sln", ".git"}

// FindRepoRoot walks up from each start directory in turn and returns the
// first ancestor holding a repository marker.
func FindRepoRoot(starts ...string) (string, bool) {
	for _, start := range starts {
		if start == "" {
			continue
		}
		current, err := filepath.Abs(start)
		if err != nil {
			continue
		}
		for {
			for _, marker := range repoMarkers {
				if _, err := os.Stat(filepath.Join(current, marker)); err == nil {
					return current, true
				}
			}
			parent := filepath.Dir(current)
			if parent == current {
				break
			}
			current = parent
		}
	}
	return "", false
}

// IsGitRepo reports whether dir itself holds a .git entry.
func IsGitRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
