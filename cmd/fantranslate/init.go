package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/madnessandcourage/fantranslate/internal/application/handlers"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a translation project in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}

			result, err := handlers.InitProject(cwd)
			if err != nil {
				return fmt.Errorf("initializing project: %w", err)
			}

			fmt.Printf("Created %s\n", result.ProjectFile)
			fmt.Println("Edit it to set your languages, then set OPENROUTER_API_KEY to enable extraction.")
			return nil
		},
	}
}
