package install

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbcli/deploy-skills/internal/install/pathenv"
	"github.com/dbcli/deploy-skills/internal/source"
	"github.com/dbcli/deploy-skills/internal/source/sourcetest"
	"github.com/dbcli/deploy-skills/internal/ui"
)

type fakeEditor struct {
	dirs []string
	err  error
}

func (f *fakeEditor) Ensure(_ context.Context, dir string) (*pathenv.Result, error) {
	f.dirs = append(f.dirs, dir)
	if f.err != nil {
		return nil, f.err
	}
	return &pathenv.Result{Updated: []string{"profile"}}, nil
}

func layout(t *testing.T) (exe, helperDir string, src *source.Source) {
	t.Helper()
	helperDir = t.TempDir()
	sourcetest.WriteFiles(t, helperDir, map[string]string{
		"dist-linux-x64/dbcli":           "bin",
		"dist-linux-x64/lib/native.so":   "so",
		"dist-linux-x64/skills/stale.md": "should not be installed",
		"dbcli-deploy":                   "deployer",
		"README.md":                      "readme",
	})
	return filepath.Join(helperDir, "dist-linux-x64", "dbcli"), helperDir, sourcetest.New(t, "dbcli-exec")
}

func TestInstall(t *testing.T) {
	defer ui.SetOutput(ui.SetOutput(io.Discard))
	exe, helperDir, src := layout(t)
	dir := filepath.Join(t.TempDir(), "tools", "dbcli")
	editor := &fakeEditor{}

	res, err := Install(context.Background(), Options{
		Exe: exe, HelperDir: helperDir, Source: src, Dir: dir, PathEditor: editor,
	})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "dbcli"))
	assert.FileExists(t, filepath.Join(dir, "lib", "native.so"))
	assert.FileExists(t, filepath.Join(dir, "dbcli-deploy"))
	assert.FileExists(t, filepath.Join(dir, "README.md"))
	assert.FileExists(t, filepath.Join(dir, "skills", "dbcli-exec", "SKILL.md"))
	assert.NoFileExists(t, filepath.Join(dir, "skills", "stale.md"))
	assert.Equal(t, []string{"dbcli", "dbcli-deploy", "README.md", "skills/"}, res.Copied)
	assert.Equal(t, []string{dir}, editor.dirs)
}

func TestInstall_SkipsSelfCopy(t *testing.T) {
	defer ui.SetOutput(ui.SetOutput(io.Discard))
	dir := t.TempDir()
	sourcetest.Populate(t, filepath.Join(dir, "skills"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dbcli"), []byte("bin"), 0o755))
	src, err := source.Open(filepath.Join(dir, "skills"))
	require.NoError(t, err)

	res, err := Install(context.Background(), Options{Exe: filepath.Join(dir, "dbcli"), HelperDir: dir, Source: src, Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"binaries", "skills"}, res.Skipped)
	assert.Empty(t, res.Copied)
	assert.FileExists(t, filepath.Join(dir, "skills", "dbcli-query", "SKILL.md"))
}

func TestInstall_PathFailureIsNotFatal(t *testing.T) {
	defer ui.SetOutput(ui.SetOutput(io.Discard))
	exe, _, _ := layout(t)

	res, err := Install(context.Background(), Options{
		Exe: exe, Dir: t.TempDir(), PathEditor: &fakeEditor{err: errors.New("denied")},
	})
	require.NoError(t, err)
	assert.Nil(t, res.Path)
}

func TestInstall_ExeOnlyLeavesSiblings(t *testing.T) {
	defer ui.SetOutput(ui.SetOutput(io.Discard))
	bin := t.TempDir()
	sourcetest.WriteFiles(t, bin, map[string]string{
		"dbcli":             "bin",
		"git":               "git",
		"python3":           "python",
		"share/man/dbcli.1": "man",
	})
	dir := t.TempDir()

	res, err := Install(context.Background(), Options{Exe: filepath.Join(bin, "dbcli"), ExeOnly: true, Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"dbcli"}, res.Copied)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"dbcli"}, names)
}

func TestInstall_RequiresExecutable(t *testing.T) {
	_, err := Install(context.Background(), Options{Dir: t.TempDir()})
	assert.ErrorIs(t, err, ErrNoExecutable)
}
