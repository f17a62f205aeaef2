// Package entities contains core domain data structures.
package entities

import (
	"errors"
	"fmt"
)

// ErrUnknownLanguage is returned when a language code outside the value's
// declared set is read or written. It indicates a configuration or
// programming error, never transient noise, so callers must not retry.
var ErrUnknownLanguage = errors.New("unknown language code")

// ErrOriginalImmutable is returned when a caller attempts to overwrite the
// original-language text through Set. The original text is fixed at
// construction; renaming is done by building a replacement value.
var ErrOriginalImmutable = errors.New("original language text is immutable")

// Value is a string in its original language together with a sparse set of
// per-language translations. The set of languages a value can hold is
// declared at construction and never changes afterwards.
type Value struct {
	originalText     string
	originalLanguage string
	available        []string
	translations     map[string]string
}

// NewValue creates a value with no translations. The original language is
// implicitly readable and is stripped from available if present.
func NewValue(originalText, originalLanguage string, available []string) *Value {
	langs := make([]string, 0, len(available))
	for _, code := range available {
		if code != originalLanguage {
			langs = append(langs, code)
		}
	}
	return &Value{
		originalText:     originalText,
		originalLanguage: originalLanguage,
		available:        langs,
		translations:     make(map[string]string),
	}
}

// OriginalText returns the text in the original language.
func (v *Value) OriginalText() string { return v.originalText }

// OriginalLanguage returns the language code the value was authored in.
func (v *Value) OriginalLanguage() string { return v.originalLanguage }

// AvailableLanguages returns the declared translation language codes,
// excluding the original language.
func (v *Value) AvailableLanguages() []string {
	out := make([]string, len(v.available))
	copy(out, v.available)
	return out
}

func (v *Value) knows(code string) bool {
	if code == v.originalLanguage {
		return true
	}
	for _, l := range v.available {
		if l == code {
			return true
		}
	}
	return false
}

// Get returns the text stored for the given language code. Reading the
// original language always yields the original text. A declared but
// untranslated language yields ok=false. An undeclared code is an error.
func (v *Value) Get(code string) (text string, ok bool, err error) {
	if !v.knows(code) {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	if code == v.originalLanguage {
		return v.originalText, true, nil
	}
	text, ok = v.translations[code]
	return text, ok, nil
}

// Set stores a translation for a declared language code.
func (v *Value) Set(code, text string) error {
	if code == v.originalLanguage {
		return fmt.Errorf("%w: %q", ErrOriginalImmutable, code)
	}
	if !v.knows(code) {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	v.translations[code] = text
	return nil
}

// Unset removes a stored translation. Removing a translation that was never
// set is a no-op; an undeclared code is still an error.
func (v *Value) Unset(code string) error {
	if code == v.originalLanguage {
		return fmt.Errorf("%w: %q", ErrOriginalImmutable, code)
	}
	if !v.knows(code) {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	delete(v.translations, code)
	return nil
}

// Resolve returns the translation for code, falling back to the original
// text when the translation is missing or the code is not declared. The
// fallback guarantees that translated projections are never empty for a
// non-empty original.
func (v *Value) Resolve(code string) string {
	if text, ok, err := v.Get(code); err == nil && ok {
		return text
	}
	return v.originalText
}

// Equal reports strict structural equality: original text, original
// language, declared languages and every stored translation must match.
func (v *Value) Equal(other *Value) bool {
	if other == nil {
		return false
	}
	if v.originalText != other.originalText || v.originalLanguage != other.originalLanguage {
		return false
	}
	if len(v.available) != len(other.available) {
		return false
	}
	for i := range v.available {
		if v.available[i] != other.available[i] {
			return false
		}
	}
	if len(v.translations) != len(other.translations) {
		return false
	}
	for code, text := range v.translations {
		if other.translations[code] != text {
			return false
		}
	}
	return true
}

// MatchesSurfaceForm reports whether text equals the value's original text
// or any stored translation. This is deliberately looser than Equal: it
// answers "does this entity have this surface form in some language", not
// "is this the same value".
func MatchesSurfaceForm(v *Value, text string) bool {
	if v == nil {
		return false
	}
	if text == v.originalText {
		return true
	}
	for _, t := range v.translations {
		if t == text {
			return true
		}
	}
	return false
}

// String returns the original text.
func (v *Value) String() string { return v.originalText }

// ValueRecord is the serialized form of a Value.
type ValueRecord struct {
	OriginalText       string            `json:"original_text"`
	OriginalLanguage   string            `json:"original_language"`
	AvailableLanguages []string          `json:"available_languages"`
	Translations       map[string]string `json:"translations"`
}

// ToRecord returns a lossless snapshot of the value.
func (v *Value) ToRecord() ValueRecord {
	translations := make(map[string]string, len(v.translations))
	for code, text := range v.translations {
		translations[code] = text
	}
	return ValueRecord{
		OriginalText:       v.originalText,
		OriginalLanguage:   v.originalLanguage,
		AvailableLanguages: v.AvailableLanguages(),
		Translations:       translations,
	}
}

// ValueFromRecord rebuilds a value from its serialized form.
func ValueFromRecord(r ValueRecord) *Value {
	v := NewValue(r.OriginalText, r.OriginalLanguage, r.AvailableLanguages)
	for code, text := range r.Translations {
		v.translations[code] = text
	}
	return v
}
