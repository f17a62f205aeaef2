package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/madnessandcourage/fantranslate/internal/application/handlers"
	"github.com/madnessandcourage/fantranslate/internal/domain/entities"
)

func newCharacterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "character",
		Short: "Character management operations",
	}

	cmd.AddCommand(
		newCharacterCreateCmd(),
		newCharacterListCmd(),
		newCharacterInfoCmd(),
		newCharacterSearchCmd(),
		newCharacterEditCmd(),
		newCharacterEditTranslationCmd(),
		newCharacterRemoveCmd(),
	)
	return cmd
}

func newCharacterCreateCmd() *cobra.Command {
	var gender string
	var shortNames []string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				if err := d.Characters.Create(args[0], gender, shortNames); err != nil {
					return fmt.Errorf("creating character: %w", err)
				}
				fmt.Printf("Created character %q\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&gender, "gender", "", "Character gender")
	cmd.Flags().StringSliceVar(&shortNames, "short-name", nil, "Short name or nickname (repeatable)")
	return cmd
}

func newCharacterListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all characters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				characters, err := d.Characters.List()
				if err != nil {
					return fmt.Errorf("listing characters: %w", err)
				}
				if len(characters) == 0 {
					fmt.Println("No characters found.")
					return nil
				}

				fmt.Printf("%-20s %-35s %-10s %s\n", "Name", "Short Names", "Gender", "Chars")
				fmt.Println(strings.Repeat("-", 85))
				for _, ch := range characters {
					fmt.Printf("%-20s %-35s %-10s %d\n",
						clip(ch.Name, 19),
						clip(strings.Join(ch.ShortNames, ", "), 34),
						clip(ch.Gender, 9),
						len(ch.Characteristics))
				}
				return nil
			})
		},
	}
}

func newCharacterInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <query>",
		Short: "Show a character with all translations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				info, err := d.Characters.Info(args[0])
				if err != nil {
					return fmt.Errorf("getting character info: %w", err)
				}

				fmt.Printf("Name: %s\n", info.Primary.Name)
				if len(info.Primary.ShortNames) > 0 {
					fmt.Printf("Short Names: %s\n", strings.Join(info.Primary.ShortNames, ", "))
				}
				if info.Primary.Gender != "" {
					fmt.Printf("Gender: %s\n", info.Primary.Gender)
				}

				if len(info.Primary.Characteristics) > 0 {
					fmt.Println("Characteristics:")
					characteristics := append([]entities.TranslatedCharacteristic(nil), info.Primary.Characteristics...)
					sort.SliceStable(characteristics, func(i, j int) bool {
						return characteristics[i].Confidence > characteristics[j].Confidence
					})
					for _, c := range characteristics {
						fmt.Printf("  - %s (confidence: %d)\n", c.Sentence, c.Confidence)
					}
				} else {
					fmt.Println("Characteristics: None")
				}

				langs := make([]string, 0, len(info.Translations))
				for lang := range info.Translations {
					langs = append(langs, lang)
				}
				sort.Strings(langs)

				fmt.Println("\nTranslations:")
				for _, lang := range langs {
					trans := info.Translations[lang]
					fmt.Printf("  %s: %s\n", strings.ToUpper(lang), trans.Name)
					if len(trans.ShortNames) > 0 {
						fmt.Printf("    Short Names: %s\n", strings.Join(trans.ShortNames, ", "))
					}
					if trans.Gender != "" {
						fmt.Printf("    Gender: %s\n", trans.Gender)
					}
				}
				return nil
			})
		},
	}
}

func newCharacterSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search for a character by name or short name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				found, ok, err := d.Characters.Search(args[0])
				if err != nil {
					return fmt.Errorf("searching character: %w", err)
				}
				if !ok {
					fmt.Printf("Character %q not found.\n", args[0])
					return nil
				}
				fmt.Printf("Found: %s\n", found.Name)
				if len(found.ShortNames) > 0 {
					fmt.Printf("Short Names: %s\n", strings.Join(found.ShortNames, ", "))
				}
				if found.Gender != "" {
					fmt.Printf("Gender: %s\n", found.Gender)
				}
				return nil
			})
		},
	}
}

func newCharacterEditCmd() *cobra.Command {
	var newName, gender string
	var addShortNames, removeShortNames, addCharacteristics, removeCharacteristics []string

	cmd := &cobra.Command{
		Use:   "edit <query>",
		Short: "Edit a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				req := handlers.EditRequest{
					AddShortNames:         addShortNames,
					RemoveShortNames:      removeShortNames,
					AddCharacteristics:    addCharacteristics,
					RemoveCharacteristics: removeCharacteristics,
				}
				if cmd.Flags().Changed("new-name") {
					req.NewName = &newName
				}
				if cmd.Flags().Changed("gender") {
					req.Gender = &gender
				}

				modified, err := d.Characters.Edit(args[0], req)
				if err != nil {
					return fmt.Errorf("editing character: %w", err)
				}
				if !modified {
					fmt.Println("No changes made.")
					return nil
				}
				fmt.Println("Character updated successfully.")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&newName, "new-name", "", "New full name")
	cmd.Flags().StringVar(&gender, "gender", "", "New gender (empty clears it)")
	cmd.Flags().StringSliceVar(&addShortNames, "add-short-name", nil, "Short name to add (repeatable)")
	cmd.Flags().StringSliceVar(&removeShortNames, "remove-short-name", nil, "Short name to remove (repeatable)")
	cmd.Flags().StringSliceVar(&addCharacteristics, "add-characteristic", nil, "Characteristic to add (repeatable)")
	cmd.Flags().StringSliceVar(&removeCharacteristics, "remove-characteristic", nil, "Characteristic to remove (repeatable)")
	return cmd
}

func newCharacterEditTranslationCmd() *cobra.Command {
	var name, gender string

	cmd := &cobra.Command{
		Use:   "edit-translation <query> <language>",
		Short: "Set translations for a character's fields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				edit := handlers.TranslationEdit{}
				if cmd.Flags().Changed("name") {
					edit.Name = &name
				}
				if cmd.Flags().Changed("gender") {
					edit.Gender = &gender
				}
				if edit.Name == nil && edit.Gender == nil {
					fmt.Println("No changes made.")
					return nil
				}

				if err := d.Characters.EditTranslation(args[0], args[1], edit); err != nil {
					return fmt.Errorf("editing translation: %w", err)
				}
				fmt.Println("Character translation updated successfully.")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Translated full name")
	cmd.Flags().StringVar(&gender, "gender", "", "Translated gender")
	return cmd
}

func newCharacterRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a character by exact full name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				if !force {
					fmt.Printf("Remove character %q? [y/N] ", args[0])
					var answer string
					fmt.Scanln(&answer)
					if !strings.EqualFold(strings.TrimSpace(answer), "y") {
						fmt.Println("Cancelled.")
						return nil
					}
				}

				removed, err := d.Characters.Remove(args[0])
				if err != nil {
					return fmt.Errorf("removing character: %w", err)
				}
				if removed == 0 {
					fmt.Printf("Character %q not found.\n", args[0])
					return nil
				}
				fmt.Printf("Removed %d character(s).\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	return cmd
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
