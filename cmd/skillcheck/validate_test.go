package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRepo(t *testing.T, skills map[string]map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for dir, files := range skills {
		for file, content := range files {
			path := filepath.Join(root, "skills", dir, filepath.FromSlash(file))
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		}
	}
	return root
}

func TestNewValidateConfig(t *testing.T) {
	config := NewValidateConfig()
	assert.Equal(t, "skills", config.SkillsDir)
	assert.False(t, config.Strict)
	assert.False(t, config.JSON)
	assert.Equal(t, 4, config.Jobs)
}

func TestRunValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("clean repository passes", func(t *testing.T) {
		root := writeRepo(t, map[string]map[string]string{
			"foo-bar": {
				"SKILL.md": "---\nname: foo-bar\ndescription: Use when testing, always\nlicense: MIT\n---\n\nBody.\n",
			},
		})
		assert.Equal(t, exitPass, runValidate(ctx, root, NewValidateConfig()))
	})

	t.Run("error finding fails", func(t *testing.T) {
		root := writeRepo(t, map[string]map[string]string{
			"foo-bar": {
				"SKILL.md":         "---\nname: foo-bar\ndescription: Use when testing, always\nlicense: MIT\n---\n\nBody.\n",
				"rules/badname.md": "---\ntitle: Bad\nimpact: LOW\n---\n\nProse.\n",
			},
		})
		assert.Equal(t, exitFail, runValidate(ctx, root, NewValidateConfig()))
	})

	t.Run("warnings only pass unless strict", func(t *testing.T) {
		root := writeRepo(t, map[string]map[string]string{
			"foo-bar": {
				"SKILL.md": "---\nname: foo-bar\ndescription: \"\"\nlicense: MIT\n---\n\nBody.\n",
			},
		})
		assert.Equal(t, exitPass, runValidate(ctx, root, NewValidateConfig()))

		strict := NewValidateConfig()
		strict.Strict = true
		assert.Equal(t, exitFail, runValidate(ctx, root, strict))
	})

	t.Run("duplicate skill names are fatal", func(t *testing.T) {
		root := writeRepo(t, map[string]map[string]string{
			"dir-one": {"SKILL.md": "---\nname: shared-skill\ndescription: d\nlicense: MIT\n---\n\nBody.\n"},
			"dir-two": {"SKILL.md": "---\nname: shared-skill\ndescription: d\nlicense: MIT\n---\n\nBody.\n"},
		})
		assert.Equal(t, exitFatal, runValidate(ctx, root, NewValidateConfig()))
	})

	t.Run("missing skills directory is fatal", func(t *testing.T) {
		assert.Equal(t, exitFatal, runValidate(ctx, t.TempDir(), NewValidateConfig()))
	})

	t.Run("pattern narrows the run", func(t *testing.T) {
		root := writeRepo(t, map[string]map[string]string{
			"good-skill": {"SKILL.md": "---\nname: good-skill\ndescription: Use when testing, always\nlicense: MIT\n---\n\nBody.\n"},
			"bad-skill":  {"SKILL.md": "---\nname: bad-skill\ndescription: Use when testing, always\nlicense: MIT\n---\n\nBody.\n", "rules/badname.md": "---\ntitle: Bad\nimpact: LOW\n---\n\nProse.\n"},
		})

		scoped := NewValidateConfig()
		scoped.Skills = []string{"good-*"}
		assert.Equal(t, exitPass, runValidate(ctx, root, scoped))

		assert.Equal(t, exitFail, runValidate(ctx, root, NewValidateConfig()))
	})
}
