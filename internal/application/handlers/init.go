package handlers

import (
	"fmt"

	"github.com/madnessandcourage/fantranslate/internal/infrastructure/config"
)

// InitResult reports a project initialization.
type InitResult struct {
	ProjectFile string
}

// InitProject scaffolds a new translation project in the given directory:
// a default project.yml the user then edits. The character snapshot is not
// created here; it appears on first save.
func InitProject(basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("project already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default project file: %w", err)
	}

	return &InitResult{ProjectFile: config.ProjectFilePath(basePath)}, nil
}
