package main

import (
	"os"

	"github.com/simonhull/ember/internal/commands"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.CreateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
