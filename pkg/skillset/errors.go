package skillset

import (
	"fmt"
	"strings"
)

// MissingRequiredFileError indicates a skill directory without a SKILL.md.
// It is fatal for that skill only; the rest of the repository still loads.
type MissingRequiredFileError struct {
	Directory string
	File      string
}

func (e *MissingRequiredFileError) Error() string {
	return fmt.Sprintf("skill directory '%s' is missing required file %s", e.Directory, e.File)
}

// DuplicateSkillNameError indicates two skill directories resolving to the
// same skill name. Identity is ambiguous, so this is fatal for the whole run.
type DuplicateSkillNameError struct {
	Name        string
	Directories []string
}

func (e *DuplicateSkillNameError) Error() string {
	return fmt.Sprintf("duplicate skill name '%s' declared by directories: %s",
		e.Name, strings.Join(e.Directories, ", "))
}
