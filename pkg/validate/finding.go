// Package validate applies the structural conventions of a skill repository
// as executable checks: required frontmatter, naming, guide integrity,
// example coverage, and size budgets. Content violations never abort a run;
// they surface as findings.
package validate

import "fmt"

// Severity classifies a finding. Only ERROR findings fail a run.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
	SeverityInfo    Severity = "INFO"
)

// Finding is a single validation result tied to a skill and, when known, to
// one of its files.
type Finding struct {
	Severity Severity `json:"severity"`
	Skill    string   `json:"skill"`
	File     string   `json:"file,omitempty"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	if f.File != "" {
		return fmt.Sprintf("%s %s/%s: %s", f.Severity, f.Skill, f.File, f.Message)
	}
	return fmt.Sprintf("%s %s: %s", f.Severity, f.Skill, f.Message)
}
