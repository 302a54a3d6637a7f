// Package sourcetest builds synthetic skills trees for tests.
package sourcetest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dbcli/deploy-skills/internal/source"
)

// Integration is the INTEGRATION.md written by New. Its rule fragment is
// "Rule A" and its Copilot template body is "Use dbcli for SQL.".
const Integration = `# DbCli Integration

## 1. Overview

<!-- DBCLI_RULES_START -->
Rule A
<!-- DBCLI_RULES_END -->

## 2. GitHub Copilot Integration

Create .github/copilot-instructions.md:

` + "```markdown" + `
# Copilot Instructions
Use dbcli for SQL.
` + "```" + `

## 3. Codex
`

// WriteFiles writes files (relative path -> content) under root.
func WriteFiles(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

// Manifest returns a SKILL.md body with frontmatter for name.
func Manifest(name string) string {
	return "---\nname: " + name + "\ndescription: " + name + " skill\n---\n\n# " + name + "\n"
}

// New creates <tmp>/skills holding the shared documents, the canary bundle
// and each named bundle (with SKILL.md and references/usage.md), and
// returns it opened as a Source.
func New(t testing.TB, bundles ...string) *source.Source {
	t.Helper()
	root := filepath.Join(t.TempDir(), source.DirName)
	Populate(t, root, bundles...)
	src, err := source.Open(root)
	if err != nil {
		t.Fatalf("opening synthetic source: %v", err)
	}
	return src
}

// Populate writes a valid skills tree into root.
func Populate(t testing.TB, root string, bundles ...string) {
	t.Helper()
	files := map[string]string{
		source.IntegrationDoc:       Integration,
		source.ReadmeDoc:            "# DbCli skills\n",
		source.ConnectionStringsDoc: "sqlite: Data Source=app.db\n",
	}
	names := append([]string{source.CanaryBundle}, bundles...)
	for _, name := range names {
		files[name+"/"+source.ManifestName] = Manifest(name)
		files[name+"/references/usage.md"] = "usage of " + name + "\n"
	}
	WriteFiles(t, root, files)
}
