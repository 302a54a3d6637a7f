package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// maxFrontmatterSize bounds the YAML block parsed from a manifest.
const maxFrontmatterSize = 64 * 1024

// ErrNoFrontmatter is returned when a manifest has no leading YAML block.
var ErrNoFrontmatter = errors.New("manifest has no frontmatter")

// Meta is the YAML frontmatter at the top of a SKILL.md file.
type Meta struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Version     string            `yaml:"version,omitempty"`
	Metadata    map[string]string `yaml:"metadata,omitempty"`
}

// Meta reads and parses the bundle manifest's frontmatter.
func (b Bundle) Meta() (*Meta, error) {
	if b.Manifest == "" {
		return nil, fmt.Errorf("%s: no %s", b.Name, ManifestName)
	}
	data, err := os.ReadFile(b.Manifest)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", b.Manifest, err)
	}
	return ParseFrontmatter(data)
}

// ParseFrontmatter extracts the "---" delimited YAML header of a
// markdown document.
func ParseFrontmatter(data []byte) (*Meta, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return nil, ErrNoFrontmatter
	}
	rest := data[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, fmt.Errorf("unterminated frontmatter")
	}
	block := rest[:end]
	if len(block) > maxFrontmatterSize {
		return nil, fmt.Errorf("frontmatter exceeds %d bytes", maxFrontmatterSize)
	}

	var meta Meta
	if err := yaml.Unmarshal(block, &meta); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	return &meta, nil
}
