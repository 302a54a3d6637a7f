package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbcli/deploy-skills/internal/binary"
)

func TestLocateForInstall(t *testing.T) {
	onPath := func(string) (string, error) { return "/usr/local/bin/dbcli", nil }

	t.Run("release directory", func(t *testing.T) {
		dir := t.TempDir()
		exe := filepath.Join(dir, "dist-linux-x64", "dbcli")
		require.NoError(t, os.MkdirAll(filepath.Dir(exe), 0o755))
		require.NoError(t, os.WriteFile(exe, []byte("bin"), 0o755))

		got, exeOnly, err := locateForInstall(binary.Locator{Dir: dir, GOOS: "linux", GOARCH: "amd64", LookPath: onPath})
		require.NoError(t, err)
		assert.Equal(t, exe, got)
		assert.False(t, exeOnly)
	})

	t.Run("PATH only", func(t *testing.T) {
		got, exeOnly, err := locateForInstall(binary.Locator{Dir: t.TempDir(), GOOS: "linux", GOARCH: "amd64", LookPath: onPath})
		require.NoError(t, err)
		assert.Equal(t, "/usr/local/bin/dbcli", got)
		assert.True(t, exeOnly)
	})

	t.Run("nowhere", func(t *testing.T) {
		missing := func(string) (string, error) { return "", errors.New("not found") }
		_, _, err := locateForInstall(binary.Locator{Dir: t.TempDir(), GOOS: "linux", GOARCH: "amd64", LookPath: missing})
		assert.ErrorIs(t, err, binary.ErrNotFound)
	})
}

func TestInstallOptionsPathEditor(t *testing.T) {
	assert.Nil(t, installOptions{}.pathEditor("linux", "/home/u"))
	assert.NotNil(t, installOptions{addToPath: true}.pathEditor("linux", "/home/u"))
	assert.NotNil(t, installOptions{addToPath: true, fixUserPath: true}.pathEditor("windows", `C:\Users\u`))
}
