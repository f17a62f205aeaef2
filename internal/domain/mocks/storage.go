package mocks

import (
	"github.com/madnessandcourage/fantranslate/internal/domain/entities"
)

// Store is an in-memory ports.CollectionStore with scriptable failures.
type Store struct {
	Records []entities.CharacterRecord
	LoadErr error
	SaveErr error

	Saves int
}

// Load returns the stored records or the scripted error.
func (m *Store) Load() ([]entities.CharacterRecord, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Records, nil
}

// Save replaces the stored records or returns the scripted error.
func (m *Store) Save(records []entities.CharacterRecord) error {
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Records = records
	return nil
}
