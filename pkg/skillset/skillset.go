// Package skillset models a repository of agent skills: directories that each
// carry a SKILL.md with YAML frontmatter, an optional AGENTS.md guide with an
// abstract, table of contents and rule sections, and standalone rule files
// under rules/. All entities are built once from raw document text and are
// read-only afterwards.
package skillset

import "strings"

// SkillFileName is the required entry document of every skill directory.
const SkillFileName = "SKILL.md"

// GuideFileName is the optional expanded guide document of a skill.
const GuideFileName = "AGENTS.md"

// RulesDir is the directory holding standalone rule files within a skill.
const RulesDir = "rules"

// Impact classifies how severe a rule violation is.
type Impact string

const (
	ImpactCritical Impact = "CRITICAL"
	ImpactHigh     Impact = "HIGH"
	ImpactMedium   Impact = "MEDIUM"
	ImpactLow      Impact = "LOW"
)

// ParseImpact normalizes a raw impact value. The second return value reports
// whether the value is one of the known levels.
func ParseImpact(raw string) (Impact, bool) {
	raw = strings.TrimSpace(raw)
	switch Impact(strings.ToUpper(raw)) {
	case ImpactCritical:
		return ImpactCritical, true
	case ImpactHigh:
		return ImpactHigh, true
	case ImpactMedium:
		return ImpactMedium, true
	case ImpactLow:
		return ImpactLow, true
	default:
		return Impact(raw), false
	}
}

// RequiresExamples reports whether rules at this impact level must document
// both an incorrect and a correct example.
func (i Impact) RequiresExamples() bool {
	return i == ImpactCritical || i == ImpactHigh
}

// Skill is the parsed SKILL.md of one skill directory plus its children.
type Skill struct {
	Name        string // unique name from frontmatter
	Directory   string // name of the containing directory
	Description string // trigger description for the agent
	License     string
	Metadata    map[string]string // free-form metadata such as author, version
	Lines       int               // raw line count of SKILL.md
	Body        string            // SKILL.md content with frontmatter stripped
	Fields      map[string]any    // raw frontmatter fields as parsed

	Guide *Guide      // parsed AGENTS.md, nil when absent
	Rules []*RuleFile // parsed rules/*.md, sorted by file name

	// FileErrors records per-file parse failures that did not prevent the
	// skill itself from loading (a malformed rule file, for instance).
	FileErrors []FileError
}

// FileError ties a parse failure to the file it occurred in.
type FileError struct {
	File string
	Err  error
}

// Guide is the parsed AGENTS.md of a skill.
type Guide struct {
	Abstract string     // text of the Abstract section, empty when missing
	TOC      []TOCEntry // table of contents entries in document order
	Sections []*Section // rule sections in document order
	Lines    int        // raw line count of AGENTS.md
}

// TOCEntry is one table-of-contents link.
type TOCEntry struct {
	Title  string
	Anchor string // link target without the leading '#'
}

// Section resolves a TOC anchor to a rule section, if one exists.
func (g *Guide) Section(anchor string) *Section {
	for _, s := range g.Sections {
		if s.Anchor == anchor {
			return s
		}
	}
	return nil
}

// Section is one rule section of a guide document.
type Section struct {
	Title       string
	Anchor      string // GitHub-style slug of the title
	Impact      Impact
	ImpactKnown bool // false when the declared impact is not a known level
	Tags        []string
	Incorrect   string // incorrect example code, empty when absent
	Correct     string // correct example code, empty when absent
}

// RuleFile is one standalone rule document under rules/.
type RuleFile struct {
	File              string // file name relative to the skill directory
	Title             string
	Impact            Impact
	ImpactKnown       bool
	ImpactDescription string
	Tags              []string
	Incorrect         string
	Correct           string
}

// Repository is the validated view over all skill directories.
type Repository struct {
	Skills  []*Skill // sorted by directory
	Skipped []Skip   // skills that failed to load, sorted by directory
}

// Skip records a skill directory that could not be loaded.
type Skip struct {
	Directory string
	Err       error
}

// HasField reports whether the SKILL.md frontmatter declared the given key,
// regardless of its value.
func (s *Skill) HasField(key string) bool {
	_, ok := s.Fields[key]
	return ok
}

// Skill returns the skill with the given name, or nil.
func (r *Repository) Skill(name string) *Skill {
	for _, s := range r.Skills {
		if s.Name == name {
			return s
		}
	}
	return nil
}
