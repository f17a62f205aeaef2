package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/madnessandcourage/fantranslate/internal/domain/entities"
	"github.com/madnessandcourage/fantranslate/internal/domain/ports"
)

// rosterEntry is what GetAllCharacters shows the agent for one character.
// Characteristics are deliberately left out to keep the observation small.
type rosterEntry struct {
	Name       string   `json:"name"`
	ShortNames []string `json:"short_names,omitempty"`
	Gender     string   `json:"gender,omitempty"`
}

func stringProperty(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// CharacterTools builds the fixed toolset the extraction agent mutates the
// collection through. The collection instance is captured explicitly so two
// pipelines never share hidden state. Handlers fold failures into their
// string reply; the agent reads those like any other observation.
func CharacterTools(collection *entities.CharacterCollection) []ports.Tool {
	return []ports.Tool{
		{
			Name:        "SearchCharacter",
			Description: "Search for an existing character by name or short name using fuzzy matching.",
			Parameters: objectSchema(map[string]any{
				"query": stringProperty("Name or short name to look up"),
			}, "query"),
			Handler: func(_ context.Context, args json.RawMessage) (string, error) {
				var in struct {
					Query string `json:"query"`
				}
				if err := json.Unmarshal(args, &in); err != nil {
					return fmt.Sprintf("Error searching character: %v", err), nil
				}
				ch := collection.Search(in.Query)
				if ch == nil {
					return "Character not found", nil
				}
				data, err := json.Marshal(ch.ToRecord())
				if err != nil {
					return fmt.Sprintf("Error searching character: %v", err), nil
				}
				return string(data), nil
			},
		},
		{
			Name:        "CreateCharacter",
			Description: "Create a new character with the given name and optional gender.",
			Parameters: objectSchema(map[string]any{
				"name":   stringProperty("The character's full name"),
				"gender": stringProperty("The character's gender, if mentioned in the text"),
			}, "name"),
			Handler: func(_ context.Context, args json.RawMessage) (string, error) {
				var in struct {
					Name   string `json:"name"`
					Gender string `json:"gender"`
				}
				if err := json.Unmarshal(args, &in); err != nil {
					return fmt.Sprintf("Error creating character: %v", err), nil
				}
				if strings.TrimSpace(in.Name) == "" {
					return "Error creating character: name is required", nil
				}
				if existing := collection.Search(in.Name); existing != nil {
					return fmt.Sprintf("Character %q already exists", existing.Name().OriginalText()), nil
				}
				collection.CreateCharacter(in.Name, nil, in.Gender, nil)
				return fmt.Sprintf("Character %q created successfully", in.Name), nil
			},
		},
		{
			Name:        "AddCharacterShortName",
			Description: "Add a short name or nickname to an existing character.",
			Parameters: objectSchema(map[string]any{
				"name":       stringProperty("The character's full name"),
				"short_name": stringProperty("The short name or nickname to add"),
			}, "name", "short_name"),
			Handler: func(_ context.Context, args json.RawMessage) (string, error) {
				var in struct {
					Name      string `json:"name"`
					ShortName string `json:"short_name"`
				}
				if err := json.Unmarshal(args, &in); err != nil {
					return fmt.Sprintf("Error adding short name: %v", err), nil
				}
				ch := collection.Search(in.Name)
				if ch == nil {
					return fmt.Sprintf("Character %q not found", in.Name), nil
				}
				if equalFold(in.ShortName, ch.Name().OriginalText()) {
					return fmt.Sprintf("Error: short name %q cannot be the same as the character's full name", in.ShortName), nil
				}
				if err := collection.AddShortName(in.Name, in.ShortName); err != nil {
					return fmt.Sprintf("Error adding short name: %v", err), nil
				}
				return fmt.Sprintf("Short name %q added to %q", in.ShortName, ch.Name().OriginalText()), nil
			},
		},
		{
			Name:        "SetCharacterGender",
			Description: "Set the gender of an existing character.",
			Parameters: objectSchema(map[string]any{
				"name":   stringProperty("The character's full name"),
				"gender": stringProperty("The gender to record"),
			}, "name", "gender"),
			Handler: func(_ context.Context, args json.RawMessage) (string, error) {
				var in struct {
					Name   string `json:"name"`
					Gender string `json:"gender"`
				}
				if err := json.Unmarshal(args, &in); err != nil {
					return fmt.Sprintf("Error setting gender: %v", err), nil
				}
				if _, err := collection.UpdateCharacter(in.Name, entities.CharacterUpdate{Gender: &in.Gender}); err != nil {
					return fmt.Sprintf("Character %q not found", in.Name), nil
				}
				return fmt.Sprintf("Gender of %q set to %q", in.Name, in.Gender), nil
			},
		},
		{
			Name:        "GetAllCharacters",
			Description: "List every character currently in the collection, without characteristic detail.",
			Parameters:  objectSchema(map[string]any{}),
			Handler: func(_ context.Context, _ json.RawMessage) (string, error) {
				roster := make([]rosterEntry, 0, collection.Len())
				for _, ch := range collection.Characters() {
					entry := rosterEntry{Name: ch.Name().OriginalText()}
					for _, sn := range ch.ShortNames() {
						entry.ShortNames = append(entry.ShortNames, sn.OriginalText())
					}
					if g := ch.Gender(); g != nil {
						entry.Gender = g.OriginalText()
					}
					roster = append(roster, entry)
				}
				data, err := json.Marshal(roster)
				if err != nil {
					return fmt.Sprintf("Error listing characters: %v", err), nil
				}
				return string(data), nil
			},
		},
	}
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
