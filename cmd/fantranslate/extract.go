package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/madnessandcourage/fantranslate/internal/application/handlers"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <chapter-file>",
		Short: "Extract new characters from a chapter",
		Long: `Reads a chapter text file, detects characters missing from the
collection, extracts them with the AI agent, verifies completeness and
saves the updated collection.

The collection is saved even when extraction stays incomplete, so partial
progress is never lost.`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	chapterPath := args[0]

	return withExtractHandler(func(handler *handlers.ExtractHandler, _ *Deps) error {
		fmt.Printf("Extracting characters from %s...\n", chapterPath)

		result, err := handler.Handle(ctx, chapterPath)
		if err != nil {
			return fmt.Errorf("extracting characters: %w", err)
		}

		if len(result.Missing) == 0 {
			fmt.Println("No missing characters found, collection is up to date.")
			return nil
		}

		fmt.Printf("Detected %d missing character(s): %s\n",
			len(result.Missing), strings.Join(result.Missing, ", "))
		fmt.Printf("Added %d character(s): %s\n",
			len(result.Added), strings.Join(result.Added, ", "))
		fmt.Printf("Collection grew from %d to %d characters.\n",
			result.CharactersBefore, result.CharactersAfter)

		if !result.Complete {
			fmt.Println("Warning: extraction incomplete after all retries; partial progress was saved.")
		}
		return nil
	})
}
