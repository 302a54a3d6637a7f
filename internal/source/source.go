// Package source locates and reads the canonical dbcli skills tree.
//
// A skills tree ("source") is a directory holding one folder per skill
// bundle plus shared documents (INTEGRATION.md, CONNECTION_STRINGS.md,
// README.md). Every deployer reads from a *Source passed in explicitly;
// there is no process-wide current source.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// DirName is the directory name the source lives under in a checkout
	// or an installed tools directory.
	DirName = "skills"

	// ManifestName is the canonical on-disk name of a bundle manifest.
	ManifestName = "SKILL.md"

	// IntegrationDoc holds the rule fragment and the Copilot template.
	IntegrationDoc = "INTEGRATION.md"

	// ConnectionStringsDoc documents connection string formats.
	ConnectionStringsDoc = "CONNECTION_STRINGS.md"

	// ReadmeDoc is the top-level readme of the skills tree.
	ReadmeDoc = "README.md"

	// CanaryBundle must be present for a directory to count as a source.
	CanaryBundle = "dbcli-query"
)

// ErrNotFound is returned by Resolve when no candidate is a valid source.
var ErrNotFound = errors.New("skills source not found")

// Source is a validated skills tree.
type Source struct {
	// Root is the absolute path of the skills directory.
	Root string
}

// Bundle is one skill folder inside a Source.
type Bundle struct {
	// Name is the folder name (e.g. "dbcli-query").
	Name string

	// Dir is the absolute path of the folder.
	Dir string

	// Manifest is the path of the manifest file as it exists on disk,
	// which may differ from ManifestName in case. Empty when missing.
	Manifest string
}

// Open validates dir and returns it as a Source.
//
// Parameters:
//   - dir: Candidate skills directory
//
// Returns:
//   - *Source: The validated source
//   - error: Why dir does not qualify
func Open(dir string) (*Source, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	if !isFile(filepath.Join(abs, IntegrationDoc)) {
		return nil, fmt.Errorf("%s: missing %s", abs, IntegrationDoc)
	}
	if FindManifest(filepath.Join(abs, CanaryBundle)) == "" {
		return nil, fmt.Errorf("%s: missing %s/%s", abs, CanaryBundle, ManifestName)
	}
	return &Source{Root: abs}, nil
}

// Resolve returns the first candidate directory that is a valid Source.
// Earlier candidates win, so a local checkout shadows an installed copy.
//
// Parameters:
//   - candidates: Directories to search, highest priority first
//
// Returns:
//   - *Source: The first valid source
//   - error: ErrNotFound when no candidate qualifies
func Resolve(candidates []string) (*Source, error) {
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		src, err := Open(dir)
		if err != nil {
			log.Debug("skills source candidate rejected", "dir", dir, "reason", err)
			continue
		}
		log.Debug("skills source resolved", "dir", src.Root)
		return src, nil
	}
	return nil, ErrNotFound
}

// DefaultCandidates returns the standard search order: the skills folder
// next to the executable, the installed tools copy under the home
// directory, then the working directory. Empty inputs are dropped.
func DefaultCandidates(exeDir, home, cwd string) []string {
	var out []string
	if exeDir != "" {
		out = append(out, filepath.Join(exeDir, DirName))
	}
	if home != "" {
		out = append(out, filepath.Join(home, "tools", "dbcli", DirName))
	}
	if cwd != "" {
		out = append(out, filepath.Join(cwd, DirName))
	}
	return out
}

// Path joins item onto the source root.
func (s *Source) Path(item string) string {
	return filepath.Join(s.Root, item)
}

// Contains reports whether path is the source root or lies beneath it.
func (s *Source) Contains(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(s.Root, abs)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// ReadIntegration returns the contents of INTEGRATION.md.
func (s *Source) ReadIntegration() (string, error) {
	data, err := os.ReadFile(s.Path(IntegrationDoc))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", IntegrationDoc, err)
	}
	return string(data), nil
}

// Bundle returns the named bundle folder. The folder must exist; the
// manifest may be missing, in which case Bundle.Manifest is empty.
func (s *Source) Bundle(name string) (Bundle, error) {
	dir := s.Path(name)
	info, err := os.Stat(dir)
	if err != nil {
		return Bundle{}, err
	}
	if !info.IsDir() {
		return Bundle{}, fmt.Errorf("%s is not a directory", dir)
	}
	return Bundle{Name: name, Dir: dir, Manifest: FindManifest(dir)}, nil
}

// Bundles lists every valid bundle (folder with a manifest) in
// alphabetical order.
func (s *Source) Bundles() ([]Bundle, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.Root, err)
	}
	var bundles []Bundle
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(s.Root, entry.Name())
		manifest := FindManifest(dir)
		if manifest == "" {
			continue
		}
		bundles = append(bundles, Bundle{Name: entry.Name(), Dir: dir, Manifest: manifest})
	}
	sort.Slice(bundles, func(i, j int) bool { return bundles[i].Name < bundles[j].Name })
	return bundles, nil
}

// BundleDirs lists every bundle folder in alphabetical order, including
// folders that lack a manifest. Hidden folders are ignored.
func (s *Source) BundleDirs() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.Root, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// FindManifest returns the path of the manifest file directly inside dir,
// matching ManifestName case-insensitively. The exact-case spelling wins
// when several exist. Returns "" when none is found.
func FindManifest(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	found := ""
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsManifestName(entry.Name()) {
			continue
		}
		if entry.Name() == ManifestName {
			return filepath.Join(dir, entry.Name())
		}
		if found == "" {
			found = filepath.Join(dir, entry.Name())
		}
	}
	return found
}

// IsManifestName reports whether a base name is a manifest in any case.
func IsManifestName(name string) bool {
	return strings.EqualFold(name, ManifestName)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
