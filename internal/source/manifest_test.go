package source

import (
	"errors"
	"testing"
)

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantErr  error
		anyErr   bool
	}{
		{
			name:     "basic",
			input:    "---\nname: dbcli-query\ndescription: Run queries\n---\n# body\n",
			wantName: "dbcli-query",
		},
		{
			name:     "crlf line endings",
			input:    "---\r\nname: dbcli-exec\r\n---\r\nbody",
			wantName: "dbcli-exec",
		},
		{
			name:    "no frontmatter",
			input:   "# Just markdown\n",
			wantErr: ErrNoFrontmatter,
		},
		{
			name:   "unterminated",
			input:  "---\nname: x\n",
			anyErr: true,
		},
		{
			name:   "invalid yaml",
			input:  "---\nname: [unclosed\n---\n",
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := ParseFrontmatter([]byte(tt.input))
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseFrontmatter() error = %v, want %v", err, tt.wantErr)
				}
			case tt.anyErr:
				if err == nil {
					t.Fatal("ParseFrontmatter() expected error")
				}
			default:
				if err != nil {
					t.Fatalf("ParseFrontmatter() error = %v", err)
				}
				if meta.Name != tt.wantName {
					t.Errorf("Name = %q, want %q", meta.Name, tt.wantName)
				}
			}
		})
	}
}
