package rules_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbcli/deploy-skills/internal/rules"
	"github.com/dbcli/deploy-skills/internal/source"
	"github.com/dbcli/deploy-skills/internal/source/sourcetest"
	"github.com/dbcli/deploy-skills/internal/ui"
)

func TestInjector_Idempotent(t *testing.T) {
	defer ui.SetOutput(ui.SetOutput(io.Discard))

	src := sourcetest.New(t, "dbcli-exec")
	work := t.TempDir()
	inj := rules.Injector{Dir: work, Files: []string{"CLAUDE.md"}}

	first := inj.Inject(src, false)
	require.Equal(t, 1, first.Written)

	before, err := os.ReadFile(filepath.Join(work, "CLAUDE.md"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(before), "Rule A"))
	assert.Equal(t, 1, strings.Count(string(before), rules.StartMarker))

	second := inj.Inject(src, false)
	assert.Equal(t, 1, second.Skipped)

	after, err := os.ReadFile(filepath.Join(work, "CLAUDE.md"))
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestInjector_NoFragmentSkips(t *testing.T) {
	defer ui.SetOutput(ui.SetOutput(io.Discard))

	src := sourcetest.New(t)
	require.NoError(t, os.WriteFile(src.Path(source.IntegrationDoc), []byte("# no rules"), 0o644))

	work := t.TempDir()
	report := rules.Injector{Dir: work}.Inject(src, true)
	assert.True(t, report.Missing)

	entries, err := os.ReadDir(work)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
