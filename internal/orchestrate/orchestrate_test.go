package orchestrate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbcli/deploy-skills/internal/deploy"
	"github.com/dbcli/deploy-skills/internal/source"
	"github.com/dbcli/deploy-skills/internal/source/sourcetest"
	"github.com/dbcli/deploy-skills/internal/ui"
)

type env struct {
	src       *source.Source
	cwd       string
	home      string
	claudeDir string
}

func newEnv(t *testing.T) env {
	t.Helper()
	prev := ui.SetOutput(io.Discard)
	t.Cleanup(func() { ui.SetOutput(prev) })

	cwd := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(cwd, ".git"), 0o755))
	return env{
		src:       sourcetest.New(t, "dbcli-exec"),
		cwd:       cwd,
		home:      t.TempDir(),
		claudeDir: filepath.Join(cwd, ".claude"),
	}
}

func (e env) options(targets ...string) Options {
	return Options{
		Targets:   targets,
		Source:    e.src,
		ClaudeDir: e.claudeDir,
		Cwd:       e.cwd,
		Home:      e.home,
		Confirm:   ui.AutoConfirmer(false),
	}
}

func TestParseTarget(t *testing.T) {
	all, err := ParseTarget("all")
	require.NoError(t, err)
	assert.Equal(t, []string{"claude", "copilot", "codex", "workspace"}, all)

	one, err := ParseTarget(" Codex ")
	require.NoError(t, err)
	assert.Equal(t, []string{"codex"}, one)

	_, err = ParseTarget("vim")
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestValidate_GlobalOnly(t *testing.T) {
	tests := []struct {
		name    string
		targets []string
		wantErr error
	}{
		{"codex", []string{"codex"}, nil},
		{"claude", []string{"claude"}, ErrGlobalOnlyNeedsCodex},
		{"all", deploy.Order, ErrGlobalOnlyNeedsCodex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Targets: tt.targets, GlobalOnly: true}
			err := opts.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRun_AllTargets(t *testing.T) {
	e := newEnv(t)
	verified := false
	opts := e.options(deploy.Order...)
	opts.Verify = func(context.Context) (string, error) {
		verified = true
		return "dbcli 1.0.0", nil
	}

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.NoError(t, summary.Err())
	assert.False(t, summary.Failed())
	assert.NotEmpty(t, summary.RunID)
	assert.True(t, verified)
	assert.Equal(t, "dbcli 1.0.0", summary.Version)

	var order []string
	for _, ts := range summary.Targets {
		order = append(order, ts.Target)
	}
	assert.Equal(t, deploy.Order, order)

	assert.DirExists(t, filepath.Join(e.claudeDir, "skills", "dbcli", "skills", "dbcli-exec"))
	assert.FileExists(t, filepath.Join(e.cwd, ".github", "copilot-instructions.md"))
	assert.DirExists(t, filepath.Join(e.home, ".codex", "skills", "dbcli", "skills", "dbcli-query"))
	assert.DirExists(t, filepath.Join(e.cwd, ".codex", "skills", "dbcli", "skills", "dbcli-query"))
	assert.DirExists(t, filepath.Join(e.cwd, "skills", "dbcli", "dbcli-exec"))

	data, err := os.ReadFile(filepath.Join(e.cwd, "CLAUDE.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Rule A")
}

func TestRun_SecondRunDeclinedLeavesTreesAlone(t *testing.T) {
	e := newEnv(t)
	_, err := Run(context.Background(), e.options(deploy.TargetClaude))
	require.NoError(t, err)

	summary, err := Run(context.Background(), e.options(deploy.TargetClaude))
	require.NoError(t, err)
	require.Len(t, summary.Targets, 1)
	assert.Equal(t, deploy.StatusDeclined, summary.Targets[0].Shapes[0].Status)
	assert.Nil(t, summary.Targets[0].Rules)
	assert.False(t, summary.Failed())
}

func TestRun_GlobalOnlyCodex(t *testing.T) {
	e := newEnv(t)
	opts := e.options(deploy.TargetCodex)
	opts.GlobalOnly = true

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, summary.Targets[0].Shapes, 1)
	assert.NoDirExists(t, filepath.Join(e.cwd, ".codex"))
}

func TestRun_SourceNotFound(t *testing.T) {
	e := newEnv(t)
	opts := e.options(deploy.TargetWorkspace)
	opts.Source = nil
	opts.Candidates = []string{filepath.Join(t.TempDir(), "nothing")}

	summary, err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, source.ErrNotFound)
	assert.Nil(t, summary)
	assert.NoDirExists(t, filepath.Join(e.cwd, "skills"))
}

func TestRun_TargetFailureIsIsolated(t *testing.T) {
	e := newEnv(t)
	// A regular file where the Claude directory should be makes that
	// target fail; the workspace target must still run.
	require.NoError(t, os.WriteFile(e.claudeDir, []byte("x"), 0o644))

	summary, err := Run(context.Background(), e.options(deploy.TargetClaude, deploy.TargetWorkspace))
	require.NoError(t, err)
	assert.True(t, summary.Failed())
	assert.Error(t, summary.Err())
	assert.Equal(t, deploy.StatusFailed, summary.Targets[0].Shapes[0].Status)
	assert.Equal(t, deploy.StatusDeployed, summary.Targets[1].Shapes[0].Status)
}

func TestRun_VerifyFailureIsInformational(t *testing.T) {
	e := newEnv(t)
	opts := e.options(deploy.TargetWorkspace)
	opts.Verify = func(context.Context) (string, error) { return "", errors.New("not found") }

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, summary.Failed())
	assert.Equal(t, "not found", summary.VerifyError)
}

func TestRun_Canceled(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := Run(ctx, e.options(deploy.TargetWorkspace))
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Empty(t, summary.Targets)
}

func TestSummary_JSON(t *testing.T) {
	e := newEnv(t)
	summary, err := Run(context.Background(), e.options(deploy.TargetWorkspace))
	require.NoError(t, err)

	data, err := json.Marshal(summary)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, summary.RunID, decoded["run_id"])
	targets := decoded["targets"].([]any)
	shape := targets[0].(map[string]any)["shapes"].([]any)[0].(map[string]any)
	assert.Equal(t, "deployed", shape["status"])

	rows := summary.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "workspace", rows[0].Target)
}
