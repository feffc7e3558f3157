package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newsagent/provision/pkg/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "newsagent-provision",
	Short: "First-boot provisioner for the News Agent workflow engine",
	Long: `newsagent-provision bootstraps the News Agent's workflow engine exactly
once per deployment: it imports credentials synthesized from the
environment, rewrites and imports the authored workflow definitions,
activates them, and then hands the process over to the engine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the provisioner version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func main() {
	rootCmd.AddCommand(cli.NewProvisionCommand())
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
