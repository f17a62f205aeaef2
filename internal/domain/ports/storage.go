package ports

import "github.com/madnessandcourage/fantranslate/internal/domain/entities"

// CollectionStore persists whole-collection snapshots. Save overwrites; no
// merge, no versioning. Load returns nil records when no snapshot exists
// yet, and an error only when a snapshot exists but cannot be read.
type CollectionStore interface {
	Load() ([]entities.CharacterRecord, error)
	Save(records []entities.CharacterRecord) error
}
