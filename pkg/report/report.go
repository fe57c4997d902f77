// Package report aggregates validation findings into the final pass/fail
// report. Reports are a pure function of their input: identical findings
// produce byte-identical output.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/agentskills/skillcheck/pkg/skillset"
	"github.com/agentskills/skillcheck/pkg/validate"
)

// Result is the overall outcome of a validation run.
type Result string

const (
	ResultPass Result = "PASS"
	ResultFail Result = "FAIL"
)

// Summary counts skills and findings by severity.
type Summary struct {
	Skills    int `json:"skills"`
	Validated int `json:"validated"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
}

// Report is the final aggregation of a validation run.
type Report struct {
	Result   Result             `json:"result"`
	Findings []validate.Finding `json:"findings"`
	Summary  Summary            `json:"summary"`
}

// Option configures report building
type Option func(*builder)

type builder struct {
	strict bool
}

// WithStrict promotes WARNING findings to ERROR before aggregation, so a
// strict run fails on soft budget violations too.
func WithStrict() Option {
	return func(b *builder) {
		b.strict = true
	}
}

// Build aggregates findings over a loaded repository. WARNINGs never fail a
// run unless strict mode promoted them.
func Build(repo *skillset.Repository, findings []validate.Finding, opts ...Option) *Report {
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}

	r := &Report{
		Findings: make([]validate.Finding, len(findings)),
		Summary: Summary{
			Skills:    len(repo.Skills) + len(repo.Skipped),
			Validated: len(repo.Skills),
			Skipped:   len(repo.Skipped),
		},
	}

	copy(r.Findings, findings)
	for i, f := range r.Findings {
		if b.strict && f.Severity == validate.SeverityWarning {
			r.Findings[i].Severity = validate.SeverityError
		}
		switch r.Findings[i].Severity {
		case validate.SeverityError:
			r.Summary.Errors++
		case validate.SeverityWarning:
			r.Summary.Warnings++
		}
	}

	r.Result = ResultPass
	if r.Summary.Errors > 0 {
		r.Result = ResultFail
	}
	return r
}

// Passed reports whether the run produced no ERROR findings.
func (r *Report) Passed() bool {
	return r.Result == ResultPass
}

// Render writes the human-readable report.
func (r *Report) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range r.Findings {
		file := f.File
		if file == "" {
			file = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", severityLabel(f.Severity), f.Skill, file, f.Message)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush findings table")
	}

	if len(r.Findings) > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d skill(s): %d validated, %d skipped; %d error(s), %d warning(s)\n",
		r.Summary.Skills, r.Summary.Validated, r.Summary.Skipped, r.Summary.Errors, r.Summary.Warnings)
	fmt.Fprintf(w, "%s\n", resultLabel(r.Result))
	return nil
}

// RenderJSON writes the machine-readable report.
func (r *Report) RenderJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return errors.Wrap(err, "failed to encode report")
	}
	return nil
}

func severityLabel(s validate.Severity) string {
	switch s {
	case validate.SeverityError:
		return color.New(color.FgRed, color.Bold).Sprint(string(s))
	case validate.SeverityWarning:
		return color.New(color.FgYellow).Sprint(string(s))
	default:
		return string(s)
	}
}

func resultLabel(result Result) string {
	if result == ResultPass {
		return color.New(color.FgGreen, color.Bold).Sprint(string(result))
	}
	return color.New(color.FgRed, color.Bold).Sprint(string(result))
}
