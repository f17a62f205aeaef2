package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/madnessandcourage/fantranslate/internal/domain/entities"
	"github.com/madnessandcourage/fantranslate/internal/domain/ports"
)

const (
	// DefaultMaxAttempts bounds the per-call retry loop around one AI
	// round-trip (detection parse, yes/no parse).
	DefaultMaxAttempts = 3
	// DefaultMaxRounds bounds the extract-then-verify loop.
	DefaultMaxRounds = 3
	// DefaultRetryDelay is the base backoff between AI retries.
	DefaultRetryDelay = 500 * time.Millisecond
)

// PipelineConfig tunes retry bounds. Zero values fall back to defaults.
type PipelineConfig struct {
	MaxAttempts int
	MaxRounds   int
	RetryDelay  time.Duration
}

// Pipeline drives one chapter through the three extraction stages: detect
// missing characters, run the extraction agent, verify completeness. The
// collection is mutated in place through the agent's toolset; persistence
// is the caller's job and must happen whether or not the run completed.
type Pipeline struct {
	ai         ports.Completer
	agent      ports.Agent
	collection *entities.CharacterCollection
	logger     *zap.Logger
	cfg        PipelineConfig
}

// NewPipeline creates a pipeline over the given collection. A nil logger
// disables logging.
func NewPipeline(ai ports.Completer, agent ports.Agent, collection *entities.CharacterCollection, logger *zap.Logger, cfg PipelineConfig) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	return &Pipeline{ai: ai, agent: agent, collection: collection, logger: logger, cfg: cfg}
}

// Result reports one pipeline run over a chapter.
type Result struct {
	RunID    string
	Missing  []string // names the detection stage proposed
	Added    []string // full names added during extraction
	Complete bool     // completeness judge verdict (true when nothing was missing)
	Rounds   int      // extract-verify rounds actually run
}

// Run processes one chapter's text. It returns an error only for
// catastrophic failures; AI flakiness degrades to an incomplete result.
func (p *Pipeline) Run(ctx context.Context, chapterText string) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	logger := p.logger.With(zap.String("run_id", result.RunID))

	logger.Info("starting character extraction",
		zap.Int("existing_characters", p.collection.Len()))

	missing, err := p.DetectMissing(ctx, chapterText)
	if err != nil {
		return result, err
	}
	result.Missing = missing
	if len(result.Missing) == 0 {
		logger.Info("no missing characters detected")
		result.Complete = true
		return result, nil
	}
	logger.Info("missing characters detected", zap.Strings("missing", result.Missing))

	before := make(map[string]bool, p.collection.Len())
	for _, name := range p.collection.Names() {
		before[name] = true
	}

	tools := CharacterTools(p.collection)
	for round := 1; round <= p.cfg.MaxRounds; round++ {
		result.Rounds = round

		if err := p.extract(ctx, result.Missing, chapterText, tools); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			logger.Warn("extraction agent failed", zap.Int("round", round), zap.Error(err))
		}

		result.Added = result.Added[:0]
		for _, name := range p.collection.Names() {
			if !before[name] {
				result.Added = append(result.Added, name)
			}
		}

		complete, reason, err := p.checkComplete(ctx, result.Missing, result.Added)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			logger.Warn("completeness judge failed", zap.Int("round", round), zap.Error(err))
			continue
		}
		if complete {
			logger.Info("extraction complete", zap.Int("rounds", round),
				zap.Strings("added", result.Added))
			result.Complete = true
			return result, nil
		}
		logger.Info("extraction incomplete, retrying",
			zap.Int("round", round), zap.String("reason", reason))
	}

	logger.Warn("extraction still incomplete after all rounds",
		zap.Strings("missing", result.Missing), zap.Strings("added", result.Added))
	return result, nil
}

// DetectMissing asks the AI which characters appear in the chapter but not
// in the collection. Malformed replies are retried up to the attempt bound,
// after which detection degrades to an empty list so the pipeline proceeds
// as if nothing were missing. Context errors are never degraded; a canceled
// run must not report an up-to-date collection.
func (p *Pipeline) DetectMissing(ctx context.Context, chapterText string) ([]string, error) {
	known := p.collection.KnownNames()

	var roster strings.Builder
	roster.WriteString("The following character names and short names are already in the collection:\n")
	for _, name := range known {
		roster.WriteString("- " + name + "\n")
	}

	systemPrompt := NewPrompt().
		Section("Existing Characters", strings.TrimRight(roster.String(), "\n")).
		Section("Chapter Text", chapterText).
		Section("Task",
			"Extract a list of character names that appear in the chapter but are NOT in the existing character collection. "+
				"Only include names that clearly refer to characters (people, not places, objects, etc.).").
		Section("Output Format",
			"Return a JSON array of strings, where each string is a character name found in the chapter that is missing from the collection.\n\n"+
				`Example: ["John Smith", "Mary Johnson", "Dr. Roberts"]`).
		Section("Guidelines",
			"- Only include proper names that refer to people/characters\n"+
				"- Include both full names and nicknames if they appear\n"+
				"- Do not include place names, object names, or abstract concepts\n"+
				"- If a character is already in the collection (by any of their names or short names), do not include them\n"+
				"- Be thorough but avoid false positives").
		Build()

	userPrompt := fmt.Sprintf("Chapter text:\n%s\n\nExisting characters: %v", chapterText, known)

	missing, err := retryParse(ctx, p.logger, "detection", p.cfg.MaxAttempts, p.cfg.RetryDelay,
		func(ctx context.Context) (string, error) {
			return p.ai.Complete(ctx, systemPrompt, userPrompt)
		},
		parseNameList,
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Warn("detection degraded to empty list", zap.Error(err))
		return nil, nil
	}
	return missing, nil
}

// extract runs the agent over the chapter with the character toolset. The
// agent's reasoning is opaque; only the collection's state matters.
func (p *Pipeline) extract(ctx context.Context, missing []string, chapterText string, tools []ports.Tool) error {
	var names strings.Builder
	names.WriteString("The following characters need to be extracted from the chapter:\n")
	for _, name := range missing {
		names.WriteString("- " + name + "\n")
	}

	systemPrompt := NewPrompt().
		Section("Missing Characters", strings.TrimRight(names.String(), "\n")).
		Section("Chapter Text", chapterText).
		Section("Task",
			"For each missing character, use the available character tools to:\n"+
				"1. Create the character in the collection\n"+
				"2. Add any short names or nicknames you find\n"+
				"3. Set the character's gender if mentioned").
		Section("Available Tools",
			"- CreateCharacter: Create a new character\n"+
				"- AddCharacterShortName: Add short names to existing characters\n"+
				"- SetCharacterGender: Set gender information\n"+
				"- SearchCharacter: Check if a character exists\n"+
				"- GetAllCharacters: View current collection").
		Section("Guidelines",
			"- Be thorough in extracting character information\n"+
				"- Only create characters that are explicitly listed as missing\n"+
				"- Use the chapter text as the source of truth for all character information\n"+
				"- If gender is not mentioned, leave it unset\n"+
				"- Focus on factual information from the text, not inferences").
		Build()

	userQuery := fmt.Sprintf("Extract the following characters from this chapter: %v\n\nChapter text:\n%s", missing, chapterText)

	final, _, err := p.agent.Run(ctx, systemPrompt, userQuery, tools, nil)
	if err != nil {
		return fmt.Errorf("running extraction agent: %w", err)
	}
	p.logger.Debug("extraction agent finished", zap.String("final", truncate(final, 200)))
	return nil
}

// checkComplete asks the yes/no judge whether every missing character is
// now represented by the newly added names.
func (p *Pipeline) checkComplete(ctx context.Context, missing, added []string) (bool, string, error) {
	question := fmt.Sprintf(
		"Missing characters that should have been extracted: %v\n"+
			"New characters that were added to the collection: %v\n\n"+
			"Have all the missing characters been successfully added to the collection?",
		missing, added)
	return p.YesNo(ctx, question)
}

// YesNo asks the collaborator a question under the constrained YES /
// "NO, <reason>" protocol. Malformed replies are retried up to the attempt
// bound and then surface as a hard error wrapping ErrMalformedReply.
func (p *Pipeline) YesNo(ctx context.Context, question string) (bool, string, error) {
	systemPrompt := yesNoSystemPrompt()

	type verdict struct {
		yes    bool
		reason string
	}
	v, err := retryParse(ctx, p.logger, "yesno", p.cfg.MaxAttempts, p.cfg.RetryDelay,
		func(ctx context.Context) (string, error) {
			return p.ai.Complete(ctx, systemPrompt, question)
		},
		func(raw string) (verdict, error) {
			yes, reason, err := parseYesNo(raw)
			return verdict{yes: yes, reason: reason}, err
		},
	)
	if err != nil {
		return false, "", err
	}
	return v.yes, v.reason, nil
}

// parseNameList parses the detection reply: a JSON array whose elements are
// coerced to strings. Numeric elements are kept (coerced); any other
// element type is dropped. A non-array top level is a parse failure,
// including null, which would otherwise unmarshal into a nil slice.
func parseNameList(raw string) ([]string, error) {
	cleaned := cleanJSONReply(raw)
	if cleaned == "" || cleaned == "null" {
		return nil, fmt.Errorf("expected JSON array, got %q", cleaned)
	}

	var elements []any
	if err := json.Unmarshal([]byte(cleaned), &elements); err != nil {
		return nil, fmt.Errorf("expected JSON array: %w", err)
	}

	names := make([]string, 0, len(elements))
	for _, el := range elements {
		switch v := el.(type) {
		case string:
			names = append(names, v)
		case float64:
			if v == float64(int(v)) {
				names = append(names, strconv.Itoa(int(v)))
			} else {
				names = append(names, strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
	}
	return names, nil
}

// cleanJSONReply removes markdown code fences if present.
func cleanJSONReply(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}

// truncate shortens s to n runes; slicing on bytes could split a rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
