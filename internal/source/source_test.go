package source_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbcli/deploy-skills/internal/source"
	"github.com/dbcli/deploy-skills/internal/source/sourcetest"
)

func TestResolve_FirstValidCandidateWins(t *testing.T) {
	base := t.TempDir()
	invalid := filepath.Join(base, "a")
	first := filepath.Join(base, "b")
	second := filepath.Join(base, "c")

	// Integration guide without canary bundle does not qualify.
	sourcetest.WriteFiles(t, invalid, map[string]string{source.IntegrationDoc: "x"})
	sourcetest.Populate(t, first)
	sourcetest.Populate(t, second)

	src, err := source.Resolve([]string{"", filepath.Join(base, "missing"), invalid, first, second})
	require.NoError(t, err)
	assert.Equal(t, first, src.Root)
}

func TestResolve_NotFound(t *testing.T) {
	base := t.TempDir()
	// Canary present but no integration guide.
	sourcetest.WriteFiles(t, base, map[string]string{
		source.CanaryBundle + "/" + source.ManifestName: "x",
	})

	_, err := source.Resolve([]string{base, filepath.Join(base, "nope")})
	assert.True(t, errors.Is(err, source.ErrNotFound))
}

func TestOpen_CanaryManifestCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	sourcetest.WriteFiles(t, root, map[string]string{
		source.IntegrationDoc:                   "x",
		source.CanaryBundle + "/skill.md":       "lower",
		source.CanaryBundle + "/notes/extra.md": "y",
	})

	src, err := source.Open(root)
	require.NoError(t, err)
	assert.Equal(t, root, src.Root)
}

func TestDefaultCandidates(t *testing.T) {
	got := source.DefaultCandidates("/opt/dbcli", "/home/u", "/work")
	want := []string{
		filepath.Join("/opt/dbcli", "skills"),
		filepath.Join("/home/u", "tools", "dbcli", "skills"),
		filepath.Join("/work", "skills"),
	}
	assert.Equal(t, want, got)

	assert.Equal(t, []string{filepath.Join("/work", "skills")}, source.DefaultCandidates("", "", "/work"))
}

func TestBundles_SortedAndManifestRequired(t *testing.T) {
	src := sourcetest.New(t, "dbcli-exec", "dbcli-tables")
	sourcetest.WriteFiles(t, src.Root, map[string]string{"no-manifest/readme.md": "x"})

	bundles, err := src.Bundles()
	require.NoError(t, err)
	var names []string
	for _, b := range bundles {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"dbcli-exec", "dbcli-query", "dbcli-tables"}, names)
}

func TestBundleDirs_IncludesFoldersWithoutManifest(t *testing.T) {
	src := sourcetest.New(t, "dbcli-exec")
	sourcetest.WriteFiles(t, src.Root, map[string]string{
		"no-manifest/readme.md": "x",
		".hidden/readme.md":     "x",
	})

	names, err := src.BundleDirs()
	require.NoError(t, err)
	assert.Equal(t, []string{"dbcli-exec", "dbcli-query", "no-manifest"}, names)
}

func TestBundle_MissingManifestStillReturnsFolder(t *testing.T) {
	src := sourcetest.New(t)
	sourcetest.WriteFiles(t, src.Root, map[string]string{"b/readme.md": "x"})

	b, err := src.Bundle("b")
	require.NoError(t, err)
	assert.Empty(t, b.Manifest)

	_, err = src.Bundle("absent")
	assert.True(t, os.IsNotExist(err))
}

func TestContains(t *testing.T) {
	src := sourcetest.New(t)
	assert.True(t, src.Contains(src.Root))
	assert.True(t, src.Contains(filepath.Join(src.Root, "dbcli", "skills")))
	assert.False(t, src.Contains(filepath.Dir(src.Root)))
	assert.False(t, src.Contains(src.Root+"-sibling"))
}

func TestFindManifest_PrefersExactCase(t *testing.T) {
	dir := t.TempDir()
	sourcetest.WriteFiles(t, dir, map[string]string{"Skill.md": "a"})
	assert.Equal(t, filepath.Join(dir, "Skill.md"), source.FindManifest(dir))

	assert.Empty(t, source.FindManifest(filepath.Join(dir, "missing")))
}

func TestFindRepoRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	got, ok := source.FindRepoRoot("", nested)
	require.True(t, ok)
	assert.Equal(t, root, got)
	assert.True(t, source.IsGitRepo(root))
	assert.False(t, source.IsGitRepo(nested))
}
