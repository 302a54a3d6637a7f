package rules

import (
	"github.com/dbcli/deploy-skills/internal/source"
	"github.com/dbcli/deploy-skills/internal/ui"
)

// Injector appends the source's rule fragment to the host files of a
// working directory. It is the step every deployment ends with.
type Injector struct {
	// Dir is the directory host file paths are relative to.
	Dir string

	// Files overrides DefaultHostFiles when non-empty.
	Files []string
}

// Inject reads INTEGRATION.md from src and appends its fragment to the
// host files. A source without a fragment is reported and skipped.
// Per-file failures are printed as warnings and returned in the report.
func (inj Injector) Inject(src *source.Source, includeCopilot bool) *Report {
	doc, err := src.ReadIntegration()
	if err != nil {
		ui.PrintWarning("Cannot read %s: %v; skipping rules append", source.IntegrationDoc, err)
		return &Report{Missing: true}
	}

	fragment := ExtractFragment(doc)
	if fragment == "" {
		ui.PrintWarning("DbCli rules block not found in %s; skipping rules append", source.IntegrationDoc)
		return &Report{Missing: true}
	}

	report := InjectAll(inj.Dir, HostFiles(inj.Files, includeCopilot), fragment)
	for _, res := range report.Results {
		switch res.Outcome {
		case OutcomeWritten:
			ui.PrintDim("  - rules -> %s", res.Path)
		case OutcomeFailed:
			ui.PrintWarning("Rules not appended to %s: %v", res.Path, res.Err)
		}
	}
	if report.Failed > 0 {
		ui.PrintWarning("Rules appended with errors: %d written, %d already present, %d failed",
			report.Written, report.Skipped, report.Failed)
	}
	return report
}
