package commands

import (
	"github.com/simonhull/ember"
	"github.com/simonhull/ember/internal/logging"
	"github.com/simonhull/ember/internal/output"
	"github.com/spf13/cobra"
)

// RootCmd creates and returns the root command for the Ember CLI
func RootCmd() *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:   "ember",
		Short: "Create projects from templates",
		Long: `Ember creates projects from template directories.

A template is a directory tree whose names and contents embed variable
expressions, plus an ember.json manifest declaring the variables. Ember
collects values, renders the tree into a fresh project directory, and runs
the template's hook scripts.

Learn more: https://github.com/simonhull/ember`,
		Version: ember.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(verbosity)
			output.SetVerbose(verbosity > 0)
		},
	}

	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase logging verbosity (repeatable)")

	return cmd
}
