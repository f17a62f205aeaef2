package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/madnessandcourage/fantranslate/internal/application/handlers"
	"github.com/madnessandcourage/fantranslate/internal/domain/services"
	"github.com/madnessandcourage/fantranslate/internal/infrastructure/config"
	"github.com/madnessandcourage/fantranslate/internal/infrastructure/llm/openai"
	"github.com/madnessandcourage/fantranslate/internal/infrastructure/logging"
	"github.com/madnessandcourage/fantranslate/internal/infrastructure/storage"
)

// Deps holds the dependencies character commands need. Commands that talk
// to the AI use withExtractHandler instead, which also builds the client.
type Deps struct {
	Config     *config.Config
	Logger     *zap.Logger
	Characters *handlers.CharacterHandler
}

// withDeps loads the project config and builds command dependencies, then
// calls the provided function.
func withDeps(fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.BuildLogger(globalVerbosity)
	defer logger.Sync() //nolint:errcheck // stderr sync failures are harmless

	store := storage.NewStore(config.CharactersFilePath(cwd))

	deps := &Deps{
		Config:     cfg,
		Logger:     logger,
		Characters: handlers.NewCharacterHandler(store, cfg.ProjectLanguages()),
	}
	return fn(deps)
}

// withExtractHandler additionally builds the AI client, which requires an
// API key.
func withExtractHandler(fn func(*handlers.ExtractHandler, *Deps) error) error {
	return withDeps(func(d *Deps) error {
		client, err := openai.NewClient(d.Config.AI)
		if err != nil {
			return fmt.Errorf("creating AI client: %w", err)
		}

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		store := storage.NewStore(config.CharactersFilePath(cwd))

		handler := handlers.NewExtractHandler(
			client, client, store,
			d.Config.ProjectLanguages(),
			d.Logger,
			services.PipelineConfig{},
		)
		return fn(handler, d)
	})
}
