package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentskills/skillcheck/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version information of skillcheck.`,
	Run: func(cmd *cobra.Command, _ []string) {
		info := version.Get()
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			out, err := info.JSON()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error formatting version info: %s\n", err)
				os.Exit(1)
			}
			fmt.Println(out)
			return
		}
		fmt.Println(info.String())
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "Emit version information as JSON")
}
