package skillset

import (
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/agentskills/skillcheck/pkg/frontmatter"
)

// DirContents maps slash-separated file names within one skill directory
// (for example "SKILL.md" or "rules/sql-no-select-star.md") to raw text.
// Directory traversal happens outside the loader; see Discovery.
type DirContents map[string]string

// skillMeta is the frontmatter shape of a SKILL.md.
type skillMeta struct {
	Name        string            `mapstructure:"name"`
	Description string            `mapstructure:"description"`
	License     string            `mapstructure:"license"`
	Metadata    map[string]string `mapstructure:"metadata"`
}

var skillKnownFields = []string{"name", "description", "license", "metadata"}

const ruleFilePattern = RulesDir + "/*.md"

// LoadOption configures skill loading
type LoadOption func(*loadConfig)

type loadConfig struct {
	strict bool
}

// WithStrictFields rejects unrecognized frontmatter keys instead of carrying
// them through.
func WithStrictFields() LoadOption {
	return func(c *loadConfig) {
		c.strict = true
	}
}

// LoadSkill builds a Skill from the files of one skill directory. A missing
// or unparseable SKILL.md is fatal for the skill; broken child documents are
// recorded in FileErrors and leave the rest of the skill intact.
func LoadSkill(directory string, files DirContents, opts ...LoadOption) (*Skill, error) {
	cfg := &loadConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	raw, ok := files[SkillFileName]
	if !ok {
		return nil, &MissingRequiredFileError{Directory: directory, File: SkillFileName}
	}

	var fmOpts []frontmatter.Option
	if cfg.strict {
		fmOpts = append(fmOpts, frontmatter.WithKnownFields(skillKnownFields...))
	}

	doc, err := frontmatter.Parse(raw, fmOpts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s in '%s'", SkillFileName, directory)
	}

	var meta skillMeta
	if err := frontmatter.Decode(doc.Fields, &meta); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s in '%s'", SkillFileName, directory)
	}

	skill := &Skill{
		Name:        meta.Name,
		Directory:   directory,
		Description: meta.Description,
		License:     meta.License,
		Metadata:    meta.Metadata,
		Lines:       countLines(raw),
		Body:        doc.Body,
		Fields:      doc.Fields,
	}

	if guideRaw, ok := files[GuideFileName]; ok {
		guide, err := ParseGuide(guideRaw)
		if err != nil {
			skill.FileErrors = append(skill.FileErrors, FileError{File: GuideFileName, Err: err})
		} else {
			skill.Guide = guide
		}
	}

	var ruleFiles []string
	for name := range files {
		if matched, _ := doublestar.Match(ruleFilePattern, name); matched {
			ruleFiles = append(ruleFiles, name)
		}
	}
	sort.Strings(ruleFiles)

	for _, name := range ruleFiles {
		rule, err := ParseRuleFile(name, files[name], cfg.strict)
		if err != nil {
			skill.FileErrors = append(skill.FileErrors, FileError{File: name, Err: err})
			continue
		}
		skill.Rules = append(skill.Rules, rule)
	}

	return skill, nil
}

// LoadRepository folds LoadSkill over all skill directories. Directories that
// fail to load are recorded as skipped so one malformed skill does not abort
// the rest; two directories resolving to the same skill name are fatal for
// the whole run.
func LoadRepository(dirs map[string]DirContents, opts ...LoadOption) (*Repository, error) {
	names := make([]string, 0, len(dirs))
	for name := range dirs {
		names = append(names, name)
	}
	sort.Strings(names)

	repo := &Repository{}
	seen := make(map[string]string, len(names))

	for _, dir := range names {
		skill, err := LoadSkill(dir, dirs[dir], opts...)
		if err != nil {
			repo.Skipped = append(repo.Skipped, Skip{Directory: dir, Err: err})
			continue
		}

		// A skill without a frontmatter name still gets validated; identity
		// falls back to the directory so it cannot collide spuriously.
		identity := skill.Name
		if identity == "" {
			identity = skill.Directory
		}
		if prev, dup := seen[identity]; dup {
			return nil, &DuplicateSkillNameError{
				Name:        identity,
				Directories: []string{prev, dir},
			}
		}
		seen[identity] = dir

		repo.Skills = append(repo.Skills, skill)
	}

	sort.Slice(repo.Skills, func(i, j int) bool {
		return repo.Skills[i].Directory < repo.Skills[j].Directory
	})

	return repo, nil
}
