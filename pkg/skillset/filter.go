package skillset

import (
	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// FilterByPatterns narrows a repository to the skills whose name or directory
// matches at least one glob pattern. An empty pattern list returns the
// repository unchanged. Skipped entries are filtered the same way so a run
// scoped to a few skills does not fail on unrelated broken ones.
func FilterByPatterns(repo *Repository, patterns []string) (*Repository, error) {
	if len(patterns) == 0 {
		return repo, nil
	}

	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid skill pattern '%s'", pattern)
		}
		globs = append(globs, g)
	}

	matches := func(name, directory string) bool {
		for _, g := range globs {
			if g.Match(name) || g.Match(directory) {
				return true
			}
		}
		return false
	}

	filtered := &Repository{}
	for _, skill := range repo.Skills {
		if matches(skill.Name, skill.Directory) {
			filtered.Skills = append(filtered.Skills, skill)
		}
	}
	for _, skip := range repo.Skipped {
		if matches(skip.Directory, skip.Directory) {
			filtered.Skipped = append(filtered.Skipped, skip)
		}
	}
	return filtered, nil
}
