package rules

import (
	"errors"
	"regexp"
)

var (
	copilotSection = regexp.MustCompile(`## 2\. GitHub Copilot Integration[\s\S]*?## 3\.`)
	markdownFence  = regexp.MustCompile("```markdown\\s*([\\s\\S]*?)\\s*```")
)

// ErrNoCopilotSection is returned when INTEGRATION.md lacks the
// "## 2. GitHub Copilot Integration" section or the "## 3." heading
// that ends it.
var ErrNoCopilotSection = errors.New("could not find Copilot section in INTEGRATION.md")

// ErrNoCopilotTemplate is returned when the Copilot section has no
// ```markdown fenced block.
var ErrNoCopilotTemplate = errors.New("could not extract Copilot instructions template")

// ExtractCopilotTemplate returns the body of the first ```markdown fenced
// block inside the GitHub Copilot section of INTEGRATION.md.
func ExtractCopilotTemplate(doc string) (string, error) {
	section := copilotSection.FindString(doc)
	if section == "" {
		return "", ErrNoCopilotSection
	}
	m := markdownFence.FindStringSubmatch(section)
	if m == nil {
		return "", ErrNoCopilotTemplate
	}
	return m[1], nil
}
