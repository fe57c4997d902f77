package validate

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/agentskills/skillcheck/pkg/logger"
	"github.com/agentskills/skillcheck/pkg/skillset"
)

// Size budgets for the two structural documents. Exceeding them is a soft
// warning, not a failure.
const (
	SkillLineBudget = 100
	GuideLineBudget = 500
)

var (
	kebabCaseRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	ruleFileRe  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)+\.md$`)
	semverRe    = regexp.MustCompile(`^v?\d+\.\d+\.\d+(-[0-9A-Za-z.\-]+)?(\+[0-9A-Za-z.\-]+)?$`)
	triggerRe   = regexp.MustCompile(`(?i)\b(when|whenever|while|if|use)\b`)
)

var requiredSkillFields = []string{"name", "description", "license"}

// Validator runs the structural checks over a loaded repository.
type Validator struct {
	jobs int
}

// Option is a function that configures a Validator
type Option func(*Validator)

// WithJobs sets the number of skills validated concurrently. Values below
// one fall back to sequential validation.
func WithJobs(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.jobs = n
		}
	}
}

// New creates a Validator
func New(opts ...Option) *Validator {
	v := &Validator{jobs: 1}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks every skill of the repository plus its skipped entries and
// returns all findings ordered by skill directory name, then file. The order
// is stable regardless of how many jobs run concurrently.
func (v *Validator) Validate(ctx context.Context, repo *skillset.Repository) []Finding {
	perSkill := make([][]Finding, len(repo.Skills))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(v.jobs)
	for i, skill := range repo.Skills {
		i, skill := i, skill
		eg.Go(func() error {
			perSkill[i] = validateSkill(skill)
			logger.G(egCtx).WithField("skill", skill.Directory).
				WithField("findings", len(perSkill[i])).Debug("validated skill")
			return nil
		})
	}
	_ = eg.Wait()

	// Merge validated and skipped skills back into one lexicographic
	// sequence. Both slices are already sorted by directory.
	var findings []Finding
	si, ki := 0, 0
	for si < len(repo.Skills) || ki < len(repo.Skipped) {
		if ki >= len(repo.Skipped) ||
			(si < len(repo.Skills) && repo.Skills[si].Directory < repo.Skipped[ki].Directory) {
			findings = append(findings, perSkill[si]...)
			si++
			continue
		}
		skip := repo.Skipped[ki]
		findings = append(findings, Finding{
			Severity: SeverityError,
			Skill:    skip.Directory,
			Message:  fmt.Sprintf("skill skipped: %v", skip.Err),
		})
		ki++
	}

	return findings
}

func validateSkill(skill *skillset.Skill) []Finding {
	var findings []Finding
	add := func(severity Severity, file, format string, args ...any) {
		findings = append(findings, Finding{
			Severity: severity,
			Skill:    skill.Directory,
			File:     file,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	for _, fe := range skill.FileErrors {
		add(SeverityError, fe.File, "file failed to parse: %v", fe.Err)
	}

	if !kebabCaseRe.MatchString(skill.Directory) {
		add(SeverityError, "", "skill directory '%s' is not kebab-case", skill.Directory)
	}

	for _, key := range requiredSkillFields {
		if !skill.HasField(key) {
			add(SeverityError, skillset.SkillFileName, "missing required frontmatter key '%s'", key)
		}
	}

	if skill.HasField("name") {
		if skill.Name != skill.Directory {
			add(SeverityError, skillset.SkillFileName,
				"skill name '%s' does not match directory name '%s'", skill.Name, skill.Directory)
		}
		if !kebabCaseRe.MatchString(skill.Name) {
			add(SeverityError, skillset.SkillFileName, "skill name '%s' is not kebab-case", skill.Name)
		}
	}

	if skill.HasField("description") {
		switch {
		case strings.TrimSpace(skill.Description) == "":
			add(SeverityWarning, skillset.SkillFileName, "description is empty")
		case !hasTriggerClause(skill.Description):
			add(SeverityWarning, skillset.SkillFileName,
				"description does not mention a trigger condition (no comma or 'when'-style clause)")
		}
	}

	if version, ok := skill.Metadata["version"]; ok && !semverRe.MatchString(version) {
		add(SeverityWarning, skillset.SkillFileName,
			"metadata version '%s' is not a semantic version", version)
	}

	if skill.Lines > SkillLineBudget {
		add(SeverityWarning, skillset.SkillFileName,
			"%s has %d lines, exceeding the %d line budget", skillset.SkillFileName, skill.Lines, SkillLineBudget)
	}

	if skill.Guide != nil {
		findings = append(findings, validateGuide(skill)...)
	}

	for _, rule := range skill.Rules {
		findings = append(findings, validateRule(skill, rule)...)
	}

	return findings
}

func validateGuide(skill *skillset.Skill) []Finding {
	guide := skill.Guide
	var findings []Finding
	add := func(severity Severity, format string, args ...any) {
		findings = append(findings, Finding{
			Severity: severity,
			Skill:    skill.Directory,
			File:     skillset.GuideFileName,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if strings.TrimSpace(guide.Abstract) == "" {
		add(SeverityError, "guide is missing an Abstract section")
	}
	if len(guide.TOC) == 0 {
		add(SeverityError, "guide is missing a Table of Contents")
	}

	for _, entry := range guide.TOC {
		if guide.Section(entry.Anchor) == nil {
			add(SeverityError, "table of contents entry '%s' does not resolve to a section", entry.Title)
		}
	}

	for _, section := range guide.Sections {
		if section.Impact != "" && !section.ImpactKnown {
			add(SeverityError, "section '%s' declares unknown impact '%s'", section.Title, section.Impact)
			continue
		}
		if section.ImpactKnown && section.Impact.RequiresExamples() {
			if section.Incorrect == "" || section.Correct == "" {
				add(SeverityError,
					"section '%s' has impact %s but is missing an incorrect/correct example pair",
					section.Title, section.Impact)
			}
		}
	}

	if guide.Lines > GuideLineBudget {
		add(SeverityWarning, "%s has %d lines, exceeding the %d line budget",
			skillset.GuideFileName, guide.Lines, GuideLineBudget)
	}

	return findings
}

func validateRule(skill *skillset.Skill, rule *skillset.RuleFile) []Finding {
	var findings []Finding
	add := func(severity Severity, format string, args ...any) {
		findings = append(findings, Finding{
			Severity: severity,
			Skill:    skill.Directory,
			File:     rule.File,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if !ruleFileRe.MatchString(path.Base(rule.File)) {
		add(SeverityError, "rule file name does not match the {prefix}-{rule-name}.md pattern")
	}

	if rule.Impact != "" && !rule.ImpactKnown {
		add(SeverityError, "rule declares unknown impact '%s'", rule.Impact)
		return findings
	}

	if rule.ImpactKnown && rule.Impact.RequiresExamples() {
		if rule.Incorrect == "" || rule.Correct == "" {
			add(SeverityError, "rule has impact %s but is missing an incorrect/correct example pair", rule.Impact)
		}
	}

	return findings
}

// hasTriggerClause is the heuristic for descriptions that tell the agent when
// to reach for the skill: a comma-separated clause or a when-style keyword.
func hasTriggerClause(description string) bool {
	return strings.Contains(description, ",") || triggerRe.MatchString(description)
}
