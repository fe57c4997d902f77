package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentskills/skillcheck/pkg/logger"
	"github.com/agentskills/skillcheck/pkg/presenter"
	"github.com/agentskills/skillcheck/pkg/report"
	"github.com/agentskills/skillcheck/pkg/skillset"
	"github.com/agentskills/skillcheck/pkg/validate"
)

// Exit codes: 0 on PASS, 1 on ERROR findings, 2 when the run itself could
// not complete (duplicate skill names, unreadable repository).
const (
	exitPass  = 0
	exitFail  = 1
	exitFatal = 2
)

type ValidateConfig struct {
	SkillsDir string
	Strict    bool
	JSON      bool
	Skills    []string
	Jobs      int
}

func NewValidateConfig() *ValidateConfig {
	return &ValidateConfig{
		SkillsDir: "skills",
		Strict:    false,
		JSON:      false,
		Jobs:      4,
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate the skills under a repository root",
	Long: `Validate every skill directory under <path>/skills (or --skills-dir).

The run passes when no ERROR-severity findings exist; WARNINGs never fail a
run unless --strict is set. A skill that fails to parse is reported as
skipped and does not abort validation of the rest.

Examples:
  skillcheck validate
  skillcheck validate path/to/repo --strict
  skillcheck validate --skills 'schema-*' --json`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getValidateConfigFromFlags(cmd)
		root := "."
		if len(args) > 0 {
			root = args[0]
		}
		os.Exit(runValidate(cmd.Context(), root, config))
	},
}

func init() {
	defaults := NewValidateConfig()
	validateCmd.Flags().String("skills-dir", defaults.SkillsDir, "Skills directory relative to the repository root")
	validateCmd.Flags().Bool("strict", defaults.Strict, "Treat warnings as errors and reject unknown frontmatter keys")
	validateCmd.Flags().Bool("json", defaults.JSON, "Emit a machine-readable JSON report")
	validateCmd.Flags().StringSlice("skills", nil, "Only validate skills matching these glob patterns")
	validateCmd.Flags().IntP("jobs", "j", defaults.Jobs, "Number of skills validated concurrently")

	viper.BindPFlag("skills_dir", validateCmd.Flags().Lookup("skills-dir"))
	viper.BindPFlag("strict", validateCmd.Flags().Lookup("strict"))
	viper.BindPFlag("jobs", validateCmd.Flags().Lookup("jobs"))
}

func getValidateConfigFromFlags(cmd *cobra.Command) *ValidateConfig {
	config := NewValidateConfig()
	config.SkillsDir = viper.GetString("skills_dir")
	config.Strict = viper.GetBool("strict")
	config.Jobs = viper.GetInt("jobs")

	// Flags set on the invoking command win over config file and env values.
	if cmd.Flags().Changed("skills-dir") {
		config.SkillsDir, _ = cmd.Flags().GetString("skills-dir")
	}
	if cmd.Flags().Changed("strict") {
		config.Strict, _ = cmd.Flags().GetBool("strict")
	}
	if cmd.Flags().Changed("jobs") {
		config.Jobs, _ = cmd.Flags().GetInt("jobs")
	}
	if jsonOut, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = jsonOut
	}
	if patterns, err := cmd.Flags().GetStringSlice("skills"); err == nil {
		config.Skills = patterns
	}
	return config
}

func runValidate(ctx context.Context, root string, config *ValidateConfig) int {
	skillsRoot := filepath.Join(root, config.SkillsDir)

	discovery, err := skillset.NewDiscovery(skillset.WithRoots(skillsRoot))
	if err != nil {
		presenter.Error(err, "Failed to initialize skill discovery")
		return exitFatal
	}

	dirs, err := discovery.Collect(ctx)
	if err != nil {
		if len(dirs) == 0 {
			presenter.Error(err, "Failed to read skills directory")
			return exitFatal
		}
		// Partial reads still validate; the unreadable parts are logged.
		logger.G(ctx).WithError(err).Warn("some skill files could not be read")
	}

	var loadOpts []skillset.LoadOption
	if config.Strict {
		loadOpts = append(loadOpts, skillset.WithStrictFields())
	}

	repo, err := skillset.LoadRepository(dirs, loadOpts...)
	if err != nil {
		var dup *skillset.DuplicateSkillNameError
		if errors.As(err, &dup) {
			presenter.Error(dup, "Skill identity is ambiguous")
		} else {
			presenter.Error(err, "Failed to load skill repository")
		}
		return exitFatal
	}

	repo, err = skillset.FilterByPatterns(repo, config.Skills)
	if err != nil {
		presenter.Error(err, "Invalid --skills pattern")
		return exitFatal
	}

	validator := validate.New(validate.WithJobs(config.Jobs))
	findings := validator.Validate(ctx, repo)

	var reportOpts []report.Option
	if config.Strict {
		reportOpts = append(reportOpts, report.WithStrict())
	}
	rep := report.Build(repo, findings, reportOpts...)

	if config.JSON {
		err = rep.RenderJSON(os.Stdout)
	} else {
		err = rep.Render(os.Stdout)
	}
	if err != nil {
		presenter.Error(err, "Failed to render report")
		return exitFatal
	}

	if !rep.Passed() {
		return exitFail
	}
	return exitPass
}
