package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultProjectYAML is the project file scaffold written by init.
const DefaultProjectYAML = `# fantranslate project settings

# Language the chapters are written in.
translate_from: en

# Language translations are produced in. Must be listed in languages.
translate_to: ru

# Translation target languages. Must not include translate_from.
languages:
  - ru

ai:
  model: openai/gpt-4o-mini
  # api_key: your-api-key (or set OPENROUTER_API_KEY env var)
`

// WriteDefault writes a scaffold project.yml into the given directory.
// Refuses to overwrite an existing project file.
func WriteDefault(basePath string) error {
	projectFile := filepath.Join(basePath, DefaultProjectFile)

	if _, err := os.Stat(projectFile); err == nil {
		return fmt.Errorf("project file already exists: %s", projectFile)
	}

	if err := os.WriteFile(projectFile, []byte(DefaultProjectYAML), 0o644); err != nil {
		return fmt.Errorf("writing project file: %w", err)
	}
	return nil
}

// Exists reports whether a project file exists in the given directory.
func Exists(basePath string) bool {
	_, err := os.Stat(filepath.Join(basePath, DefaultProjectFile))
	return err == nil
}

// ProjectFilePath returns the project file path for a directory.
func ProjectFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultProjectFile)
}
