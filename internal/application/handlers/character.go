package handlers

import (
	"fmt"
	"strings"

	"github.com/madnessandcourage/fantranslate/internal/domain/entities"
	"github.com/madnessandcourage/fantranslate/internal/domain/ports"
)

// CharacterHandler serves the interactive character management commands.
// Every mutation loads the snapshot, applies the change through collection
// methods and saves it back, so the CLI never holds stale state.
type CharacterHandler struct {
	store     ports.CollectionStore
	languages entities.Languages
}

// NewCharacterHandler creates a character handler.
func NewCharacterHandler(store ports.CollectionStore, languages entities.Languages) *CharacterHandler {
	return &CharacterHandler{store: store, languages: languages}
}

func (h *CharacterHandler) load() (*entities.CharacterCollection, error) {
	records, err := h.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading characters: %w", err)
	}
	return entities.CollectionFromRecords(h.languages, records), nil
}

func (h *CharacterHandler) save(collection *entities.CharacterCollection) error {
	if err := h.store.Save(collection.ToRecords()); err != nil {
		return fmt.Errorf("saving characters: %w", err)
	}
	return nil
}

// shortNameEqualsFullName is the editing-boundary rule: short names must be
// abbreviations or alternative forms, never the full name itself. The
// entity permits it; this layer does not.
func shortNameEqualsFullName(shortName, fullName string) bool {
	return strings.EqualFold(strings.TrimSpace(shortName), strings.TrimSpace(fullName))
}

// Create adds a new character. Fails when a fuzzy match already exists or
// a short name duplicates the full name.
func (h *CharacterHandler) Create(name, gender string, shortNames []string) error {
	collection, err := h.load()
	if err != nil {
		return err
	}
	if existing := collection.Search(name); existing != nil {
		return fmt.Errorf("character %q already exists", existing.Name().OriginalText())
	}
	for _, sn := range shortNames {
		if shortNameEqualsFullName(sn, name) {
			return fmt.Errorf("short name %q cannot be the same as the full name %q", sn, name)
		}
	}
	collection.CreateCharacter(name, shortNames, gender, nil)
	return h.save(collection)
}

// List returns every character projected into the original language.
func (h *CharacterHandler) List() ([]entities.TranslatedCharacter, error) {
	collection, err := h.load()
	if err != nil {
		return nil, err
	}
	return collection.AllCharacters(h.languages.Original), nil
}

// Search finds one character by fuzzy name match, projected into the
// original language.
func (h *CharacterHandler) Search(query string) (entities.TranslatedCharacter, bool, error) {
	collection, err := h.load()
	if err != nil {
		return entities.TranslatedCharacter{}, false, err
	}
	translated, found := collection.CharacterTranslation(query, h.languages.Original)
	return translated, found, nil
}

// CharacterInfo is one character in every configured language.
type CharacterInfo struct {
	Primary      entities.TranslatedCharacter
	Translations map[string]entities.TranslatedCharacter
}

// Info returns a character with all of its translation projections.
func (h *CharacterHandler) Info(query string) (*CharacterInfo, error) {
	collection, err := h.load()
	if err != nil {
		return nil, err
	}
	ch := collection.Search(query)
	if ch == nil {
		return nil, fmt.Errorf("%w: %q", entities.ErrCharacterNotFound, query)
	}

	info := &CharacterInfo{
		Primary:      ch.Translated(h.languages.Original),
		Translations: make(map[string]entities.TranslatedCharacter, len(h.languages.Translations)),
	}
	for _, lang := range h.languages.Translations {
		info.Translations[lang] = ch.Translated(lang)
	}
	return info, nil
}

// EditRequest describes the changes to apply to one character. Nil and
// empty fields are left untouched.
type EditRequest struct {
	NewName               *string
	Gender                *string
	AddShortNames         []string
	RemoveShortNames      []string
	AddCharacteristics    []string
	RemoveCharacteristics []string
}

func (r EditRequest) empty() bool {
	return r.NewName == nil && r.Gender == nil &&
		len(r.AddShortNames) == 0 && len(r.RemoveShortNames) == 0 &&
		len(r.AddCharacteristics) == 0 && len(r.RemoveCharacteristics) == 0
}

// Edit applies changes to the character matching query and saves. Returns
// false when the request carried no changes.
func (h *CharacterHandler) Edit(query string, req EditRequest) (bool, error) {
	if req.empty() {
		return false, nil
	}

	collection, err := h.load()
	if err != nil {
		return false, err
	}
	ch := collection.Search(query)
	if ch == nil {
		return false, fmt.Errorf("%w: %q", entities.ErrCharacterNotFound, query)
	}
	name := ch.Name().OriginalText()

	for _, sn := range req.AddShortNames {
		if shortNameEqualsFullName(sn, name) {
			return false, fmt.Errorf("short name %q cannot be the same as the full name %q", sn, name)
		}
		if err := collection.AddShortName(name, sn); err != nil {
			return false, err
		}
	}
	for _, sn := range req.RemoveShortNames {
		if err := collection.RemoveShortName(name, sn); err != nil {
			return false, err
		}
	}
	if req.NewName != nil || req.Gender != nil {
		if _, err := collection.UpdateCharacter(name, entities.CharacterUpdate{Name: req.NewName, Gender: req.Gender}); err != nil {
			return false, err
		}
		if req.NewName != nil {
			name = *req.NewName
		}
	}
	for _, text := range req.AddCharacteristics {
		if err := collection.AddCharacteristic(name, text); err != nil {
			return false, err
		}
	}
	for _, text := range req.RemoveCharacteristics {
		if err := collection.RemoveCharacteristic(name, text); err != nil {
			return false, err
		}
	}

	return true, h.save(collection)
}

// TranslationEdit sets per-language translations on a character's fields.
// Characteristics maps a characteristic's original text to its translation.
type TranslationEdit struct {
	Name            *string
	Gender          *string
	Characteristics map[string]string
}

// EditTranslation stores translations in the given language for the
// character matching query.
func (h *CharacterHandler) EditTranslation(query, language string, edit TranslationEdit) error {
	known := false
	for _, lang := range h.languages.Translations {
		if lang == language {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("language %q is not configured in %s", language, "project.yml")
	}

	collection, err := h.load()
	if err != nil {
		return err
	}
	ch := collection.Search(query)
	if ch == nil {
		return fmt.Errorf("%w: %q", entities.ErrCharacterNotFound, query)
	}

	if edit.Name != nil {
		if err := ch.Name().Set(language, *edit.Name); err != nil {
			return fmt.Errorf("translating name: %w", err)
		}
	}
	if edit.Gender != nil {
		if ch.Gender() == nil {
			return fmt.Errorf("character %q has no gender to translate", ch.Name().OriginalText())
		}
		if err := ch.Gender().Set(language, *edit.Gender); err != nil {
			return fmt.Errorf("translating gender: %w", err)
		}
	}
	for original, translation := range edit.Characteristics {
		for _, c := range ch.Characteristics() {
			if c.Text.OriginalText() == original {
				if err := c.Text.Set(language, translation); err != nil {
					return fmt.Errorf("translating characteristic: %w", err)
				}
				break
			}
		}
	}

	return h.save(collection)
}

// Remove deletes characters whose full name matches exactly. Returns how
// many were removed.
func (h *CharacterHandler) Remove(name string) (int, error) {
	collection, err := h.load()
	if err != nil {
		return 0, err
	}
	removed := collection.RemoveCharacter(name)
	if removed == 0 {
		return 0, nil
	}
	return removed, h.save(collection)
}
