package entities

import "sort"

// Characteristic is a descriptive statement about a character with a signed
// confidence weight. Confidence starts at 1 and is adjusted as later
// chapters reinforce or contradict the statement.
type Characteristic struct {
	Text       *Value
	Confidence int
}

// Character is one person tracked across chapters: a full name, optional
// short names and gender, and weighted characteristic statements.
type Character struct {
	name            *Value
	shortNames      []*Value
	gender          *Value
	characteristics []Characteristic
}

// NewCharacter creates a character with the given name and no other fields.
func NewCharacter(name *Value) *Character {
	return &Character{name: name}
}

// Name returns the character's full name.
func (c *Character) Name() *Value { return c.name }

// ShortNames returns the character's short names in insertion order.
func (c *Character) ShortNames() []*Value { return c.shortNames }

// Gender returns the character's gender, or nil if never set.
func (c *Character) Gender() *Value { return c.gender }

// Characteristics returns the character's characteristics in insertion order.
func (c *Character) Characteristics() []Characteristic { return c.characteristics }

// Rename replaces the full name.
func (c *Character) Rename(name *Value) { c.name = name }

// SetGender replaces the gender. A nil value clears it.
func (c *Character) SetGender(gender *Value) { c.gender = gender }

// AddShortName appends a short name and reports whether it was added. It is
// a no-op returning false when an equal value is already present, where
// "equal" also covers a short name whose original text or any translation
// matches the new value's original text.
func (c *Character) AddShortName(shortName *Value) bool {
	for _, existing := range c.shortNames {
		if existing.Equal(shortName) || MatchesSurfaceForm(existing, shortName.OriginalText()) {
			return false
		}
	}
	c.shortNames = append(c.shortNames, shortName)
	return true
}

// RemoveShortName removes the first short name equal to the given value,
// by the same loose match AddShortName uses. Absent names are a no-op.
func (c *Character) RemoveShortName(shortName *Value) {
	for i, existing := range c.shortNames {
		if existing.Equal(shortName) || MatchesSurfaceForm(existing, shortName.OriginalText()) {
			c.shortNames = append(c.shortNames[:i], c.shortNames[i+1:]...)
			return
		}
	}
}

// AddCharacteristic appends a new characteristic with confidence 1. It
// never merges with an existing identical statement; reinforcement is a
// separate operation.
func (c *Character) AddCharacteristic(text *Value) {
	c.characteristics = append(c.characteristics, Characteristic{Text: text, Confidence: 1})
}

// RemoveCharacteristic removes every characteristic whose original text
// equals text exactly.
func (c *Character) RemoveCharacteristic(text string) {
	kept := c.characteristics[:0]
	for _, ch := range c.characteristics {
		if ch.Text.OriginalText() != text {
			kept = append(kept, ch)
		}
	}
	c.characteristics = kept
}

// ReinforceCharacteristic increments the confidence of the first
// characteristic whose original text equals text. No-op when none match.
func (c *Character) ReinforceCharacteristic(text string) {
	for i := range c.characteristics {
		if c.characteristics[i].Text.OriginalText() == text {
			c.characteristics[i].Confidence++
			return
		}
	}
}

// DecreaseConfidence decrements the confidence of the first characteristic
// whose original text equals text. Confidence may go negative.
func (c *Character) DecreaseConfidence(text string) {
	for i := range c.characteristics {
		if c.characteristics[i].Text.OriginalText() == text {
			c.characteristics[i].Confidence--
			return
		}
	}
}

// LimitCharacteristics keeps the n highest-confidence characteristics and
// discards the rest. The sort is stable, so ties keep insertion order.
func (c *Character) LimitCharacteristics(n int) {
	sort.SliceStable(c.characteristics, func(i, j int) bool {
		return c.characteristics[i].Confidence > c.characteristics[j].Confidence
	})
	if n < 0 {
		n = 0
	}
	if len(c.characteristics) > n {
		c.characteristics = c.characteristics[:n]
	}
}

// TranslatedCharacteristic is one characteristic projected into a language.
type TranslatedCharacteristic struct {
	Sentence   string `json:"sentence"`
	Confidence int    `json:"confidence"`
}

// TranslatedCharacter is a character projected into a single language. Each
// field falls back to its original text when untranslated, so a character
// degrades to the source language rather than losing fields.
type TranslatedCharacter struct {
	Name            string                     `json:"name"`
	ShortNames      []string                   `json:"short_names"`
	Gender          string                     `json:"gender,omitempty"`
	Characteristics []TranslatedCharacteristic `json:"characteristics"`
}

// Translated projects the character into the given language.
func (c *Character) Translated(language string) TranslatedCharacter {
	out := TranslatedCharacter{Name: c.name.Resolve(language)}
	for _, sn := range c.shortNames {
		out.ShortNames = append(out.ShortNames, sn.Resolve(language))
	}
	if c.gender != nil {
		out.Gender = c.gender.Resolve(language)
	}
	for _, ch := range c.characteristics {
		out.Characteristics = append(out.Characteristics, TranslatedCharacteristic{
			Sentence:   ch.Text.Resolve(language),
			Confidence: ch.Confidence,
		})
	}
	return out
}

// CharacteristicRecord is the serialized form of a Characteristic.
type CharacteristicRecord struct {
	Text       ValueRecord `json:"text"`
	Confidence int         `json:"confidence"`
}

// CharacterRecord is the serialized form of a Character.
type CharacterRecord struct {
	Name            ValueRecord            `json:"name"`
	ShortNames      []ValueRecord          `json:"short_names"`
	Gender          *ValueRecord           `json:"gender"`
	Characteristics []CharacteristicRecord `json:"characteristics"`
}

// ToRecord returns a lossless snapshot of the character.
func (c *Character) ToRecord() CharacterRecord {
	rec := CharacterRecord{Name: c.name.ToRecord()}
	for _, sn := range c.shortNames {
		rec.ShortNames = append(rec.ShortNames, sn.ToRecord())
	}
	if c.gender != nil {
		gr := c.gender.ToRecord()
		rec.Gender = &gr
	}
	for _, ch := range c.characteristics {
		rec.Characteristics = append(rec.Characteristics, CharacteristicRecord{
			Text:       ch.Text.ToRecord(),
			Confidence: ch.Confidence,
		})
	}
	return rec
}

// CharacterFromRecord rebuilds a character from its serialized form.
func CharacterFromRecord(r CharacterRecord) *Character {
	c := NewCharacter(ValueFromRecord(r.Name))
	for _, sn := range r.ShortNames {
		c.shortNames = append(c.shortNames, ValueFromRecord(sn))
	}
	if r.Gender != nil {
		c.gender = ValueFromRecord(*r.Gender)
	}
	for _, ch := range r.Characteristics {
		c.characteristics = append(c.characteristics, Characteristic{
			Text:       ValueFromRecord(ch.Text),
			Confidence: ch.Confidence,
		})
	}
	return c
}
