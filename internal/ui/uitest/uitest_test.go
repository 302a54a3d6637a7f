package uitest

import "testing"

func TestScriptedConfirmer(t *testing.T) {
	s := &ScriptedConfirmer{Answers: []bool{true}}
	if !s.Confirm("first") {
		t.Error("first answer should be yes")
	}
	if s.Confirm("second") {
		t.Error("exhausted script should answer no")
	}
	if len(s.Prompts) != 2 || s.Prompts[1] != "second" {
		t.Errorf("Prompts = %v", s.Prompts)
	}
}
