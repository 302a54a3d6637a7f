package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbcli/deploy-skills/internal/deploy"
	"github.com/dbcli/deploy-skills/internal/orchestrate"
	"github.com/dbcli/deploy-skills/internal/source/sourcetest"
	"github.com/dbcli/deploy-skills/internal/ui"
)

func TestRunDeploy_TargetFailureExitsZero(t *testing.T) {
	var buf bytes.Buffer
	defer ui.SetOutput(ui.SetOutput(&buf))

	cwd := t.TempDir()
	sourcetest.Populate(t, filepath.Join(cwd, "skills"))
	blocker := filepath.Join(cwd, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))
	t.Chdir(cwd)
	t.Setenv("HOME", t.TempDir())

	saved := deployFlags
	t.Cleanup(func() { deployFlags = saved })
	deployFlags.target = deploy.TargetClaude
	deployFlags.claudeDir = filepath.Join(blocker, "claude")
	deployFlags.yes = true
	deployCmd.SetContext(context.Background())

	require.NoError(t, runDeploy(deployCmd, nil))
	assert.Contains(t, buf.String(), "failed")
	assert.Contains(t, buf.String(), "Deployment finished with errors")
}

func TestRunDeploy_GlobalOnlyNeedsCodex(t *testing.T) {
	defer ui.SetOutput(ui.SetOutput(&bytes.Buffer{}))
	t.Chdir(t.TempDir())

	saved := deployFlags
	t.Cleanup(func() { deployFlags = saved })
	deployFlags.target = deploy.TargetAll
	deployFlags.codexGlobal = true
	deployCmd.SetContext(context.Background())

	assert.ErrorIs(t, runDeploy(deployCmd, nil), orchestrate.ErrGlobalOnlyNeedsCodex)
}
