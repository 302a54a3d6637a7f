package util

import "testing"

func TestTempPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"dbcli-query", "dbcli-query"},
		{"DbCli Query (v2)", "dbcli-query-v2"},
		{"my_skill", "my_skill"},
		{"../escape", "escape"},
		{`a\b/c`, "a-b-c"},
		{"--", ""},
	}
	for _, tt := range tests {
		if got := TempPrefix(tt.input); got != tt.want {
			t.Errorf("TempPrefix(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
