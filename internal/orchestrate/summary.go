package orchestrate

import (
	"errors"

	"github.com/dbcli/deploy-skills/internal/deploy"
	"github.com/dbcli/deploy-skills/internal/ui"
)

// Summary is the outcome of a Run.
type Summary struct {
	// RunID identifies the run in debug logs and JSON output.
	RunID string `json:"run_id"`

	// Source is the resolved skills source root.
	Source string `json:"source"`

	// Targets has one entry per target, in deployment order.
	Targets []TargetSummary `json:"targets"`

	// Version is the output of the binary version check, when it succeeded.
	Version string `json:"dbcli_version,omitempty"`

	// VerifyError is set when the version check failed. Informational only.
	VerifyError string `json:"verify_error,omitempty"`

	results []deploy.Result
}

// TargetSummary describes one target.
type TargetSummary struct {
	Target string         `json:"target"`
	Shapes []ShapeSummary `json:"shapes"`
	Rules  *RulesSummary  `json:"rules,omitempty"`
}

// ShapeSummary describes one destination layout.
type ShapeSummary struct {
	Shape  string        `json:"shape"`
	Status deploy.Status `json:"status"`
	Dir    string        `json:"dir"`
	Copied []string      `json:"copied,omitempty"`
	Reason string        `json:"reason,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// RulesSummary counts rule injection outcomes for a target.
type RulesSummary struct {
	Missing bool `json:"missing,omitempty"`
	Written int  `json:"written"`
	Skipped int  `json:"skipped"`
	Failed  int  `json:"failed"`
}

func (s *Summary) add(res deploy.Result) {
	s.results = append(s.results, res)

	ts := TargetSummary{Target: res.Target}
	for _, o := range res.Outcomes {
		ss := ShapeSummary{Shape: o.Shape, Status: o.Status, Dir: o.Dir, Copied: o.Copied, Reason: o.Reason}
		if o.Err != nil {
			ss.Error = o.Err.Error()
		}
		ts.Shapes = append(ts.Shapes, ss)
	}
	if res.Rules != nil {
		ts.Rules = &RulesSummary{
			Missing: res.Rules.Missing,
			Written: res.Rules.Written,
			Skipped: res.Rules.Skipped,
			Failed:  res.Rules.Failed,
		}
	}
	s.Targets = append(s.Targets, ts)
}

// Failed reports whether any shape of any target failed.
func (s *Summary) Failed() bool {
	for _, res := range s.results {
		if res.Failed() {
			return true
		}
	}
	return false
}

// Err joins every shape and rule-file error of the run.
func (s *Summary) Err() error {
	var errs []error
	for _, res := range s.results {
		errs = append(errs, res.Err())
	}
	return errors.Join(errs...)
}

// Rows flattens the summary into table rows, one per shape.
func (s *Summary) Rows() []ui.SummaryRow {
	var rows []ui.SummaryRow
	for _, t := range s.Targets {
		for _, sh := range t.Shapes {
			detail := sh.Reason
			if sh.Error != "" {
				detail = sh.Error
			}
			rows = append(rows, ui.SummaryRow{
				Target:   sh.Shape,
				Status:   sh.Status.String(),
				Location: sh.Dir,
				Detail:   detail,
			})
		}
	}
	return rows
}
