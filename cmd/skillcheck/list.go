package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentskills/skillcheck/pkg/presenter"
	"github.com/agentskills/skillcheck/pkg/skillset"
)

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List the skills found under a repository root",
	Long:  `List every skill directory under <path>/skills with its name, description, and document inventory.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}
		listSkillsCmd(cmd, root)
	},
}

func listSkillsCmd(cmd *cobra.Command, root string) {
	ctx := cmd.Context()
	skillsRoot := filepath.Join(root, viper.GetString("skills_dir"))

	discovery, err := skillset.NewDiscovery(skillset.WithRoots(skillsRoot))
	if err != nil {
		presenter.Error(err, "Failed to initialize skill discovery")
		os.Exit(1)
	}

	dirs, err := discovery.Collect(ctx)
	if err != nil && len(dirs) == 0 {
		presenter.Error(err, "Failed to read skills directory")
		os.Exit(1)
	}

	repo, err := skillset.LoadRepository(dirs)
	if err != nil {
		presenter.Error(err, "Failed to load skill repository")
		os.Exit(1)
	}

	if len(repo.Skills) == 0 && len(repo.Skipped) == 0 {
		presenter.Info("No skills found")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDIRECTORY\tGUIDE\tRULES\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t---------\t-----\t-----\t-----------")

	for _, skill := range repo.Skills {
		description := truncateDescription(skill.Description, 60)
		guide := "-"
		if skill.Guide != nil {
			guide = skillset.GuideFileName
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", skill.Name, skill.Directory, guide, len(skill.Rules), description)
	}
	tw.Flush()

	for _, skip := range repo.Skipped {
		presenter.Warning(fmt.Sprintf("Skipped '%s': %v", skip.Directory, skip.Err))
	}
}

// truncateDescription shortens a description to max characters, counting
// runes so a multi-byte character is never split.
func truncateDescription(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
