// Package handlers wires domain services to the CLI commands.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/madnessandcourage/fantranslate/internal/domain/entities"
	"github.com/madnessandcourage/fantranslate/internal/domain/ports"
	"github.com/madnessandcourage/fantranslate/internal/domain/services"
)

// ExtractHandler runs the character extraction pipeline over one chapter
// file and persists the resulting collection.
type ExtractHandler struct {
	ai        ports.Completer
	agent     ports.Agent
	store     ports.CollectionStore
	languages entities.Languages
	logger    *zap.Logger
	cfg       services.PipelineConfig
}

// NewExtractHandler creates an extract handler.
func NewExtractHandler(ai ports.Completer, agent ports.Agent, store ports.CollectionStore, languages entities.Languages, logger *zap.Logger, cfg services.PipelineConfig) *ExtractHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtractHandler{ai: ai, agent: agent, store: store, languages: languages, logger: logger, cfg: cfg}
}

// ExtractResult reports one chapter run.
type ExtractResult struct {
	ChapterPath      string
	CharactersBefore int
	CharactersAfter  int
	Missing          []string
	Added            []string
	Complete         bool
}

// Handle reads the chapter, runs the pipeline and saves the collection.
// The save happens whether or not the run completed: partial progress is
// never discarded. A missing chapter file or a corrupt snapshot fails fast.
func (h *ExtractHandler) Handle(ctx context.Context, chapterPath string) (*ExtractResult, error) {
	chapterText, err := os.ReadFile(chapterPath)
	if err != nil {
		return nil, fmt.Errorf("reading chapter: %w", err)
	}

	records, err := h.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading characters: %w", err)
	}
	collection := entities.CollectionFromRecords(h.languages, records)
	before := collection.Len()

	pipeline := services.NewPipeline(h.ai, h.agent, collection, h.logger, h.cfg)
	runResult, runErr := pipeline.Run(ctx, string(chapterText))

	var saveErr error
	if err := h.store.Save(collection.ToRecords()); err != nil {
		saveErr = fmt.Errorf("saving characters: %w", err)
	}

	result := &ExtractResult{
		ChapterPath:      chapterPath,
		CharactersBefore: before,
		CharactersAfter:  collection.Len(),
	}
	if runResult != nil {
		result.Missing = runResult.Missing
		result.Added = runResult.Added
		result.Complete = runResult.Complete
	}

	if err := errors.Join(runErr, saveErr); err != nil {
		return result, err
	}
	return result, nil
}
