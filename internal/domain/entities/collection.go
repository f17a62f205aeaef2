package entities

import (
	"errors"
	"fmt"
	"sort"

	"github.com/madnessandcourage/fantranslate/internal/domain/fuzzy"
)

// ErrCharacterNotFound is returned by collection mutators when the fuzzy
// lookup resolves no character for the given name.
var ErrCharacterNotFound = errors.New("character not found")

// Languages describes the project's language setup: the language chapters
// are written in, and the codes translations may be stored under.
type Languages struct {
	Original     string
	Translations []string
}

// all returns every declared code, original first.
func (l Languages) all() []string {
	return append([]string{l.Original}, l.Translations...)
}

// SeedCharacteristic is an initial characteristic for CreateCharacter.
type SeedCharacteristic struct {
	Sentence   string
	Confidence int
}

// CharacterUpdate holds optional field changes for UpdateCharacter. Nil
// fields are left untouched; an empty gender clears the field.
type CharacterUpdate struct {
	Name   *string
	Gender *string
}

// CharacterCollection is the aggregate root owning every character of a
// project and the fuzzy name index over their full and short names. All
// structural mutation goes through collection methods, which keep the index
// in step; the index is a cache and is always rebuildable from characters.
type CharacterCollection struct {
	languages  Languages
	characters []*Character
	index      *fuzzy.Index[*Character]
}

// NewCollection creates an empty collection for the given language setup.
func NewCollection(languages Languages) *CharacterCollection {
	return &CharacterCollection{
		languages: languages,
		index:     fuzzy.NewIndex[*Character](),
	}
}

// Languages returns the collection's language setup.
func (c *CharacterCollection) Languages() Languages { return c.languages }

// Characters returns the characters in discovery order.
func (c *CharacterCollection) Characters() []*Character { return c.characters }

// Len returns the number of characters.
func (c *CharacterCollection) Len() int { return len(c.characters) }

// NewValue builds a multilingual value in the collection's languages.
func (c *CharacterCollection) NewValue(text string) *Value {
	return NewValue(text, c.languages.Original, c.languages.all())
}

func (c *CharacterCollection) indexCharacter(ch *Character) {
	c.index.Add(ch.Name().OriginalText(), ch)
	for _, sn := range ch.ShortNames() {
		c.index.Add(sn.OriginalText(), ch)
	}
}

// RebuildIndex rebuilds the fuzzy name index from scratch. Calling it with
// no intervening mutation changes nothing; collection methods call it after
// every structural change, so external callers rarely need to.
func (c *CharacterCollection) RebuildIndex() {
	c.index = fuzzy.NewIndex[*Character]()
	for _, ch := range c.characters {
		c.indexCharacter(ch)
	}
}

// searchMaxDistance tightens the fuzzy bound for short queries so that a
// query like "Al" cannot drift onto unrelated short terms.
func searchMaxDistance(query string) int {
	if len([]rune(query)) <= 4 {
		return 1
	}
	return 2
}

// Search finds a character by full or short name with fuzzy matching.
// Returns nil when nothing is within the distance bound.
func (c *CharacterCollection) Search(query string) *Character {
	if query == "" {
		return nil
	}
	_, ch, found := c.index.Search(query, searchMaxDistance(query))
	if !found {
		return nil
	}
	return ch
}

// AddCharacter appends an existing character and indexes its names.
func (c *CharacterCollection) AddCharacter(ch *Character) {
	c.characters = append(c.characters, ch)
	c.indexCharacter(ch)
}

// CreateCharacter builds a character from plain strings in the collection's
// languages, appends it and indexes it.
func (c *CharacterCollection) CreateCharacter(name string, shortNames []string, gender string, seeds []SeedCharacteristic) *Character {
	ch := NewCharacter(c.NewValue(name))
	for _, sn := range shortNames {
		ch.AddShortName(c.NewValue(sn))
	}
	if gender != "" {
		ch.SetGender(c.NewValue(gender))
	}
	for _, seed := range seeds {
		confidence := seed.Confidence
		if confidence == 0 {
			confidence = 1
		}
		ch.characteristics = append(ch.characteristics, Characteristic{
			Text:       c.NewValue(seed.Sentence),
			Confidence: confidence,
		})
	}
	c.AddCharacter(ch)
	return ch
}

// RemoveCharacter removes every character whose full name's original text
// equals name exactly (not fuzzy) and rebuilds the index. Returns the
// number of characters removed.
func (c *CharacterCollection) RemoveCharacter(name string) int {
	kept := c.characters[:0]
	removed := 0
	for _, ch := range c.characters {
		if ch.Name().OriginalText() == name {
			removed++
			continue
		}
		kept = append(kept, ch)
	}
	c.characters = kept
	if removed > 0 {
		c.RebuildIndex()
	}
	return removed
}

// UpdateCharacter applies field changes to the character matching query.
func (c *CharacterCollection) UpdateCharacter(query string, update CharacterUpdate) (*Character, error) {
	ch := c.Search(query)
	if ch == nil {
		return nil, fmt.Errorf("%w: %q", ErrCharacterNotFound, query)
	}
	if update.Name != nil {
		ch.Rename(c.NewValue(*update.Name))
	}
	if update.Gender != nil {
		if *update.Gender == "" {
			ch.SetGender(nil)
		} else {
			ch.SetGender(c.NewValue(*update.Gender))
		}
	}
	if update.Name != nil {
		c.RebuildIndex()
	}
	return ch, nil
}

// AddShortName adds a short name to the character matching query and
// indexes it. A short name the character deduplicated is not indexed, so
// the live index never holds a term a rebuild would drop.
func (c *CharacterCollection) AddShortName(query, shortName string) error {
	ch := c.Search(query)
	if ch == nil {
		return fmt.Errorf("%w: %q", ErrCharacterNotFound, query)
	}
	if ch.AddShortName(c.NewValue(shortName)) {
		c.index.Add(shortName, ch)
	}
	return nil
}

// RemoveShortName removes a short name from the character matching query
// and rebuilds the index.
func (c *CharacterCollection) RemoveShortName(query, shortName string) error {
	ch := c.Search(query)
	if ch == nil {
		return fmt.Errorf("%w: %q", ErrCharacterNotFound, query)
	}
	ch.RemoveShortName(c.NewValue(shortName))
	c.RebuildIndex()
	return nil
}

// AddCharacteristic appends a characteristic to the character matching query.
func (c *CharacterCollection) AddCharacteristic(query, text string) error {
	ch := c.Search(query)
	if ch == nil {
		return fmt.Errorf("%w: %q", ErrCharacterNotFound, query)
	}
	ch.AddCharacteristic(c.NewValue(text))
	return nil
}

// RemoveCharacteristic removes characteristics by exact original text from
// the character matching query.
func (c *CharacterCollection) RemoveCharacteristic(query, text string) error {
	ch := c.Search(query)
	if ch == nil {
		return fmt.Errorf("%w: %q", ErrCharacterNotFound, query)
	}
	ch.RemoveCharacteristic(text)
	return nil
}

// Names returns every character's full name in discovery order.
func (c *CharacterCollection) Names() []string {
	names := make([]string, 0, len(c.characters))
	for _, ch := range c.characters {
		names = append(names, ch.Name().OriginalText())
	}
	return names
}

// KnownNames returns every full name and short name, deduplicated and
// sorted. This is the roster the detection stage shows the AI.
func (c *CharacterCollection) KnownNames() []string {
	seen := make(map[string]bool)
	for _, ch := range c.characters {
		seen[ch.Name().OriginalText()] = true
		for _, sn := range ch.ShortNames() {
			seen[sn.OriginalText()] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CharacterTranslation projects the character matching name into language.
func (c *CharacterCollection) CharacterTranslation(name, language string) (TranslatedCharacter, bool) {
	ch := c.Search(name)
	if ch == nil {
		return TranslatedCharacter{}, false
	}
	return ch.Translated(language), true
}

// AllCharacters projects every character into language, in discovery order.
func (c *CharacterCollection) AllCharacters(language string) []TranslatedCharacter {
	out := make([]TranslatedCharacter, 0, len(c.characters))
	for _, ch := range c.characters {
		out = append(out, ch.Translated(language))
	}
	return out
}

// ToRecords returns a lossless snapshot of the whole collection.
func (c *CharacterCollection) ToRecords() []CharacterRecord {
	records := make([]CharacterRecord, 0, len(c.characters))
	for _, ch := range c.characters {
		records = append(records, ch.ToRecord())
	}
	return records
}

// CollectionFromRecords rebuilds a collection from its serialized form.
func CollectionFromRecords(languages Languages, records []CharacterRecord) *CharacterCollection {
	c := NewCollection(languages)
	for _, r := range records {
		c.AddCharacter(CharacterFromRecord(r))
	}
	return c
}
