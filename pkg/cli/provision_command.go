// Package cli wires the provisioner's cobra commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newsagent/provision/pkg/config"
	"github.com/newsagent/provision/pkg/console"
	"github.com/newsagent/provision/pkg/engine"
	"github.com/newsagent/provision/pkg/logger"
	"github.com/newsagent/provision/pkg/provision"
)

var provisionCmdLog = logger.New("cli:provision")

// NewProvisionCommand creates the provision command.
func NewProvisionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Bootstrap the workflow engine, then hand over to it",
		Long: `Run the one-time first-boot pipeline for the News Agent workflow engine.

The pipeline synthesizes engine credentials from the environment, imports
them, rewrites the credential references embedded in the authored workflow
definitions, imports those, and best-effort activates every workflow. It
then writes the provision marker and replaces this process with the
engine's own start procedure.

On restarts the marker short-circuits the pipeline straight to engine
startup, so this command is safe to use as the container entrypoint.

Examples:
  newsagent-provision provision
  newsagent-provision provision --env /etc/newsagent/.env
  DEBUG=provision:* newsagent-provision provision`,
		RunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env")
			return RunProvision(envFile)
		},
	}

	cmd.Flags().String("env", "", "Path to a .env file loaded before the environment is read")

	return cmd
}

// RunProvision loads configuration and executes the bootstrap pipeline.
// It only returns on failure: a successful run ends inside the engine's
// start procedure.
func RunProvision(envFile string) error {
	provisionCmdLog.Printf("loading configuration (envFile=%q)", envFile)
	settings, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		return err
	}

	client := engine.NewClient(settings.Engine.Bin)
	provisioner := provision.New(settings, client)

	if err := provisioner.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorWithSuggestions(err.Error(), []string{
			"Check that the engine executable is on PATH (N8N_BIN)",
			"Run with DEBUG=provision:*,engine:* for detail",
		}))
		return err
	}
	return nil
}
