package deploy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbcli/deploy-skills/internal/rules"
	"github.com/dbcli/deploy-skills/internal/source/sourcetest"
	"github.com/dbcli/deploy-skills/internal/ui"
	"github.com/dbcli/deploy-skills/internal/ui/uitest"
)

func TestCodexTarget_Shapes(t *testing.T) {
	both := CodexTarget("/home/u", "/work", false)
	require.Len(t, both.Shapes, 2)
	assert.Equal(t, filepath.Join("/home/u", ".codex", "skills", "dbcli", "skills"), both.Shapes[0].ItemsDir())
	assert.Equal(t, filepath.Join("/work", ".codex", "skills", "dbcli"), both.Shapes[1].TopDir())
	assert.Equal(t, filepath.Join("/work", ".git"), both.Shapes[1].Requires)

	global := CodexTarget("/home/u", "/work", true)
	require.Len(t, global.Shapes, 1)
	assert.Equal(t, "Codex USER", global.Shapes[0].Name)
}

func TestCodexTarget_RepoShapeNeedsGit(t *testing.T) {
	quiet(t)
	src := sourcetest.New(t)
	home, cwd := t.TempDir(), t.TempDir()
	inj := &recordingInjector{}

	res := CodexTarget(home, cwd, false).Deploy(context.Background(), New(src, nil, inj))

	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, StatusDeployed, res.Outcomes[0].Status)
	assert.Equal(t, StatusSkipped, res.Outcomes[1].Status)
	assert.Equal(t, ".git not found", res.Outcomes[1].Reason)
	assert.NoDirExists(t, filepath.Join(cwd, ".codex"))
	assert.False(t, res.Failed())
	assert.Equal(t, 1, inj.calls)

	require.NoError(t, os.Mkdir(filepath.Join(cwd, ".git"), 0o755))
	res = CodexTarget(home, cwd, false).Deploy(context.Background(), New(src, nil, inj))
	assert.Equal(t, StatusSkipped, res.Outcomes[0].Status)
	assert.Equal(t, StatusDeployed, res.Outcomes[1].Status)
	assert.DirExists(t, filepath.Join(cwd, ".codex", "skills", "dbcli", "skills", "dbcli-query"))
}

func TestTreeTarget_DeclineSkipsRules(t *testing.T) {
	quiet(t)
	src := sourcetest.New(t)
	claudeDir := t.TempDir()
	inj := &recordingInjector{}

	first := ClaudeTarget(claudeDir).Deploy(context.Background(), New(src, nil, inj))
	require.Equal(t, StatusDeployed, first.Outcomes[0].Status)
	assert.NotNil(t, first.Rules)

	second := ClaudeTarget(claudeDir).Deploy(context.Background(), New(src, ui.AutoConfirmer(false), inj))
	assert.Equal(t, StatusDeclined, second.Outcomes[0].Status)
	assert.Nil(t, second.Rules)
	assert.Equal(t, 1, inj.calls)
	assert.Equal(t, []bool{false}, inj.copilot)
}

func TestWorkspaceTarget_InjectsRules(t *testing.T) {
	quiet(t)
	src := sourcetest.New(t, "dbcli-exec")
	work := t.TempDir()
	d := New(src, nil, rules.Injector{Dir: work})

	res := WorkspaceTarget(work).Deploy(context.Background(), d)

	require.NoError(t, res.Err())
	require.NotNil(t, res.Rules)
	assert.Zero(t, res.Rules.Failed)
	assert.Equal(t, len(rules.DefaultHostFiles), res.Rules.Written+res.Rules.Skipped)
	data, err := os.ReadFile(filepath.Join(work, "AGENTS.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Rule A")
	assert.DirExists(t, filepath.Join(work, "skills", "dbcli", "dbcli-exec"))
}

func TestCopilotTarget(t *testing.T) {
	quiet(t)
	src := sourcetest.New(t)
	dir := t.TempDir()
	target := NewCopilotTarget(dir)
	inj := &recordingInjector{}

	res := target.Deploy(context.Background(), New(src, nil, inj))
	require.NoError(t, res.Err())
	data, err := os.ReadFile(target.Path())
	require.NoError(t, err)
	assert.Equal(t, "# Copilot Instructions\nUse dbcli for SQL.", string(data))
	assert.Equal(t, []bool{true}, inj.copilot)

	require.NoError(t, os.WriteFile(target.Path(), []byte("mine"), 0o644))
	confirm := &uitest.ScriptedConfirmer{Answers: []bool{false}}
	res = target.Deploy(context.Background(), New(src, confirm, inj))
	assert.Equal(t, StatusDeclined, res.Outcomes[0].Status)
	data, err = os.ReadFile(target.Path())
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
	assert.Equal(t, 1, inj.calls)
}

func TestCopilotTarget_MissingTemplateFails(t *testing.T) {
	quiet(t)
	src := sourcetest.New(t)
	require.NoError(t, os.WriteFile(src.Path("INTEGRATION.md"), []byte("# nothing here\n"), 0o644))

	res := NewCopilotTarget(t.TempDir()).Deploy(context.Background(), New(src, nil, nil))
	assert.True(t, res.Failed())
	assert.ErrorIs(t, res.Err(), rules.ErrNoCopilotSection)
}
