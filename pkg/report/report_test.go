package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentskills/skillcheck/pkg/skillset"
	"github.com/agentskills/skillcheck/pkg/validate"
)

func testRepo() *skillset.Repository {
	return &skillset.Repository{
		Skills: []*skillset.Skill{
			{Name: "alfa-skill", Directory: "alfa-skill"},
			{Name: "bravo-skill", Directory: "bravo-skill"},
		},
		Skipped: []skillset.Skip{{Directory: "charlie-skill"}},
	}
}

func TestBuild(t *testing.T) {
	findings := []validate.Finding{
		{Severity: validate.SeverityWarning, Skill: "alfa-skill", File: "SKILL.md", Message: "description is empty"},
		{Severity: validate.SeverityError, Skill: "bravo-skill", File: "AGENTS.md", Message: "guide is missing an Abstract section"},
	}

	t.Run("default aggregation", func(t *testing.T) {
		rep := Build(testRepo(), findings)
		assert.Equal(t, ResultFail, rep.Result)
		assert.False(t, rep.Passed())
		assert.Equal(t, 3, rep.Summary.Skills)
		assert.Equal(t, 2, rep.Summary.Validated)
		assert.Equal(t, 1, rep.Summary.Skipped)
		assert.Equal(t, 1, rep.Summary.Errors)
		assert.Equal(t, 1, rep.Summary.Warnings)
	})

	t.Run("warnings alone pass", func(t *testing.T) {
		rep := Build(testRepo(), findings[:1])
		assert.Equal(t, ResultPass, rep.Result)
		assert.True(t, rep.Passed())
	})

	t.Run("strict promotes warnings", func(t *testing.T) {
		rep := Build(testRepo(), findings[:1], WithStrict())
		assert.Equal(t, ResultFail, rep.Result)
		assert.Equal(t, 1, rep.Summary.Errors)
		assert.Equal(t, 0, rep.Summary.Warnings)
		assert.Equal(t, validate.SeverityError, rep.Findings[0].Severity)
	})

	t.Run("strict does not mutate input findings", func(t *testing.T) {
		input := []validate.Finding{findings[0]}
		Build(testRepo(), input, WithStrict())
		assert.Equal(t, validate.SeverityWarning, input[0].Severity)
	})

	t.Run("no findings pass", func(t *testing.T) {
		rep := Build(testRepo(), nil)
		assert.Equal(t, ResultPass, rep.Result)
		assert.Zero(t, rep.Summary.Errors)
	})
}

func TestRender(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	findings := []validate.Finding{
		{Severity: validate.SeverityError, Skill: "bravo-skill", File: "AGENTS.md", Message: "guide is missing an Abstract section"},
		{Severity: validate.SeverityWarning, Skill: "bravo-skill", Message: "something soft"},
	}
	rep := Build(testRepo(), findings)

	var buf bytes.Buffer
	require.NoError(t, rep.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "bravo-skill")
	assert.Contains(t, out, "AGENTS.md")
	assert.Contains(t, out, "guide is missing an Abstract section")
	assert.Contains(t, out, "3 skill(s): 2 validated, 1 skipped; 1 error(s), 1 warning(s)")
	assert.Contains(t, out, "FAIL")
}

// Identical input must render byte-identically.
func TestRenderIdempotence(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	findings := []validate.Finding{
		{Severity: validate.SeverityWarning, Skill: "alfa-skill", File: "SKILL.md", Message: "description is empty"},
	}

	var first, second bytes.Buffer
	require.NoError(t, Build(testRepo(), findings).Render(&first))
	require.NoError(t, Build(testRepo(), findings).Render(&second))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestRenderJSON(t *testing.T) {
	findings := []validate.Finding{
		{Severity: validate.SeverityError, Skill: "bravo-skill", File: "AGENTS.md", Message: "dangling reference"},
	}
	rep := Build(testRepo(), findings)

	var buf bytes.Buffer
	require.NoError(t, rep.RenderJSON(&buf))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, ResultFail, decoded.Result)
	require.Len(t, decoded.Findings, 1)
	assert.Equal(t, "bravo-skill", decoded.Findings[0].Skill)
	assert.Equal(t, 1, decoded.Summary.Errors)
}
