// Package uitest provides scripted stand-ins for interactive ui components.
package uitest

// ScriptedConfirmer replays answers in order and answers no once they
// run out. Prompts are recorded for inspection.
type ScriptedConfirmer struct {
	Answers []bool
	Prompts []string
}

// Confirm pops the next scripted answer.
func (s *ScriptedConfirmer) Confirm(prompt string) bool {
	s.Prompts = append(s.Prompts, prompt)
	if len(s.Answers) == 0 {
		return false
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer
}
