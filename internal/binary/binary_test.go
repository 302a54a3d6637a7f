package binary

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o755))
}

func noPath(string) (string, error) { return "", errors.New("not on PATH") }

func TestDistDirs(t *testing.T) {
	assert.Equal(t, []string{"dist-win-arm64"}, DistDirs("windows", "arm64"))
	assert.Equal(t, []string{"dist-win-x64"}, DistDirs("windows", "amd64"))
	assert.Equal(t, "dist-macos-x64", DistDirs("darwin", "arm64")[0])
	assert.Equal(t, "dist-linux-x64", DistDirs("linux", "amd64")[0])
	assert.Len(t, DistDirs("freebsd", "amd64"), 6)
}

func TestLocate_Priority(t *testing.T) {
	dir := t.TempDir()
	l := &Locator{Dir: dir, GOOS: "linux", GOARCH: "amd64", LookPath: noPath}

	_, err := l.Locate()
	require.ErrorIs(t, err, ErrNotFound)

	build := filepath.Join(dir, "bin", "Release", "net10.0", "win-x64", "dbcli.exe")
	touch(t, build)
	got, err := l.Locate()
	require.NoError(t, err)
	assert.Equal(t, build, got)

	local := filepath.Join(dir, "dbcli")
	touch(t, local)
	got, err = l.Locate()
	require.NoError(t, err)
	assert.Equal(t, local, got)

	arm := filepath.Join(dir, "dist-linux-arm64", "dbcli")
	touch(t, arm)
	got, err = l.Locate()
	require.NoError(t, err)
	assert.Equal(t, arm, got)

	x64 := filepath.Join(dir, "dist-linux-x64", "dbcli")
	touch(t, x64)
	got, err = l.Locate()
	require.NoError(t, err)
	assert.Equal(t, x64, got)
}

func TestLocate_WindowsIgnoresOtherArch(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "dist-win-arm64", "dbcli.exe"))
	l := &Locator{Dir: dir, GOOS: "windows", GOARCH: "amd64", LookPath: noPath}

	_, err := l.Locate()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocate_PathFallback(t *testing.T) {
	var asked []string
	l := &Locator{Dir: t.TempDir(), GOOS: "linux", GOARCH: "amd64", LookPath: func(name string) (string, error) {
		asked = append(asked, name)
		if name == "dbcli" {
			return "/usr/local/bin/dbcli", nil
		}
		return "", errors.New("no")
	}}

	got, err := l.Locate()
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/dbcli", got)
	assert.Equal(t, []string{"dbcli"}, asked)
}

func TestVerify(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "dbcli")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho 'dbcli 1.2.3'\n"), 0o755))

	version, err := Verify(context.Background(), script)
	require.NoError(t, err)
	assert.Equal(t, "dbcli 1.2.3", version)

	failing := filepath.Join(dir, "broken")
	require.NoError(t, os.WriteFile(failing, []byte("#!/bin/sh\necho boom >&2\nexit 3\n"), 0o755))
	_, err = Verify(context.Background(), failing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	_, err = Verify(context.Background(), "dbcli-definitely-not-installed")
	assert.ErrorIs(t, err, ErrNotFound)
}
