// Package storage persists the character collection as a flat JSON snapshot.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/madnessandcourage/fantranslate/internal/domain/entities"
)

// Store reads and writes whole-collection snapshots at a fixed path.
// Saves replace the whole file; there is no merge and no version field.
type Store struct {
	path string
}

// NewStore creates a store for the given snapshot path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot path.
func (s *Store) Path() string { return s.path }

// Load reads the snapshot. A missing file yields nil records and no error
// (the project simply has no characters yet); an unreadable or corrupt file
// is a hard error so broken project state never gets silently replaced.
func (s *Store) Load() ([]entities.CharacterRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading characters file: %w", err)
	}

	var records []entities.CharacterRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing characters file: %w", err)
	}
	return records, nil
}

// Save overwrites the snapshot. The write goes through a temp file and
// rename so a crash mid-save cannot truncate the previous snapshot.
func (s *Store) Save(records []entities.CharacterRecord) error {
	if records == nil {
		records = []entities.CharacterRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding characters: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".characters-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing characters file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing characters file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing characters file: %w", err)
	}
	return nil
}
