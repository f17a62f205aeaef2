package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/madnessandcourage/fantranslate/internal/domain/entities"
	"github.com/madnessandcourage/fantranslate/internal/domain/mocks"
	"github.com/madnessandcourage/fantranslate/internal/domain/ports"
)

func pipelineCollection() *entities.CharacterCollection {
	c := entities.NewCollection(entities.Languages{Original: "en", Translations: []string{"ru"}})
	c.CreateCharacter("Frodo Baggins", []string{"Frodo"}, "male", nil)
	return c
}

// creatingAgent returns a RunFunc that creates the given characters through
// the CreateCharacter tool, like a real agent would.
func creatingAgent(t *testing.T, names ...string) func(context.Context, string, string, []ports.Tool, []ports.Turn) (string, []ports.Turn, error) {
	t.Helper()
	return func(ctx context.Context, _, _ string, tools []ports.Tool, prior []ports.Turn) (string, []ports.Turn, error) {
		create := findTool(t, tools, "CreateCharacter")
		for _, name := range names {
			args, err := json.Marshal(map[string]string{"name": name})
			require.NoError(t, err)
			_, err = create.Handler(ctx, args)
			require.NoError(t, err)
		}
		return "done", prior, nil
	}
}

func TestPipeline_Run_ExtractsMissingCharacter(t *testing.T) {
	collection := pipelineCollection()
	ai := &mocks.Completer{Replies: []string{`["Gandalf"]`, "YES"}}
	agent := &mocks.Agent{RunFunc: creatingAgent(t, "Gandalf")}

	p := NewPipeline(ai, agent, collection, nil, PipelineConfig{RetryDelay: 0})
	result, err := p.Run(context.Background(), "Gandalf arrived at dawn.")

	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []string{"Gandalf"}, result.Missing)
	assert.Equal(t, []string{"Gandalf"}, result.Added)
	assert.True(t, result.Complete)
	assert.Equal(t, 1, result.Rounds)
	assert.Equal(t, 2, collection.Len())
	require.Len(t, agent.Calls, 1)
}

func TestPipeline_Run_NothingMissing(t *testing.T) {
	collection := pipelineCollection()
	ai := &mocks.Completer{Replies: []string{`[]`}}
	agent := &mocks.Agent{}

	p := NewPipeline(ai, agent, collection, nil, PipelineConfig{RetryDelay: 0})
	result, err := p.Run(context.Background(), "Frodo walked alone.")

	require.NoError(t, err)
	assert.Empty(t, result.Missing)
	assert.True(t, result.Complete)
	assert.Zero(t, result.Rounds)
	assert.Empty(t, agent.Calls)
	assert.Len(t, ai.Calls, 1)
}

func TestPipeline_Run_DetectionDegradesToEmpty(t *testing.T) {
	collection := pipelineCollection()
	ai := &mocks.Completer{Replies: []string{"this is not json"}}
	agent := &mocks.Agent{}

	p := NewPipeline(ai, agent, collection, nil, PipelineConfig{RetryDelay: 0})
	result, err := p.Run(context.Background(), "Some chapter.")

	require.NoError(t, err)
	assert.Empty(t, result.Missing)
	assert.True(t, result.Complete)
	// Detection retried the full attempt budget before giving up.
	assert.Len(t, ai.Calls, DefaultMaxAttempts)
	assert.Empty(t, agent.Calls)
}

func TestPipeline_Run_SecondRoundSucceeds(t *testing.T) {
	collection := pipelineCollection()
	ai := &mocks.Completer{Replies: []string{`["Gandalf"]`, "NO, Gandalf was not added", "YES"}}

	round := 0
	agent := &mocks.Agent{RunFunc: func(ctx context.Context, _, _ string, tools []ports.Tool, prior []ports.Turn) (string, []ports.Turn, error) {
		round++
		if round < 2 {
			return "done", prior, nil
		}
		return creatingAgent(t, "Gandalf")(ctx, "", "", tools, prior)
	}}

	p := NewPipeline(ai, agent, collection, nil, PipelineConfig{RetryDelay: 0})
	result, err := p.Run(context.Background(), "Gandalf arrived.")

	require.NoError(t, err)
	assert.True(t, result.Complete)
	assert.Equal(t, 2, result.Rounds)
	assert.Equal(t, []string{"Gandalf"}, result.Added)
	assert.Len(t, agent.Calls, 2)
}

func TestPipeline_Run_IncompleteAfterAllRounds(t *testing.T) {
	collection := pipelineCollection()
	ai := &mocks.Completer{Replies: []string{`["Gandalf"]`, "NO, Gandalf is still missing"}}
	agent := &mocks.Agent{Final: "done"}

	p := NewPipeline(ai, agent, collection, nil, PipelineConfig{RetryDelay: 0})
	result, err := p.Run(context.Background(), "Gandalf arrived.")

	// Incompleteness is a degraded result, not an error.
	require.NoError(t, err)
	assert.False(t, result.Complete)
	assert.Equal(t, DefaultMaxRounds, result.Rounds)
	assert.Empty(t, result.Added)
	assert.Len(t, agent.Calls, DefaultMaxRounds)
}

func TestPipeline_Run_AgentFailureStillJudged(t *testing.T) {
	collection := pipelineCollection()
	ai := &mocks.Completer{Replies: []string{`["Gandalf"]`, "NO, nothing was added"}}
	agent := &mocks.Agent{Err: errors.New("agent exploded")}

	p := NewPipeline(ai, agent, collection, nil, PipelineConfig{RetryDelay: 0})
	result, err := p.Run(context.Background(), "Gandalf arrived.")

	require.NoError(t, err)
	assert.False(t, result.Complete)
	assert.Equal(t, DefaultMaxRounds, result.Rounds)
}

func TestPipeline_Run_CanceledBeforeDetection(t *testing.T) {
	collection := pipelineCollection()
	ai := &mocks.Completer{Replies: []string{`["Gandalf"]`}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(ai, &mocks.Agent{}, collection, nil, PipelineConfig{RetryDelay: 0})
	result, err := p.Run(ctx, "Gandalf arrived.")

	// A canceled run must surface the cancellation, never a clean
	// "nothing missing" result.
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, result.Complete)
	assert.Empty(t, ai.Calls)
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	collection := pipelineCollection()
	ai := &mocks.Completer{Replies: []string{`["Gandalf"]`}}

	ctx, cancel := context.WithCancel(context.Background())
	agent := &mocks.Agent{RunFunc: func(ctx context.Context, _, _ string, _ []ports.Tool, prior []ports.Turn) (string, []ports.Turn, error) {
		cancel()
		return "", prior, ctx.Err()
	}}

	p := NewPipeline(ai, agent, collection, nil, PipelineConfig{RetryDelay: 0})
	_, err := p.Run(ctx, "Gandalf arrived.")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_YesNo(t *testing.T) {
	p := NewPipeline(&mocks.Completer{Replies: []string{"YES"}}, &mocks.Agent{},
		pipelineCollection(), nil, PipelineConfig{RetryDelay: 0})

	yes, reason, err := p.YesNo(context.Background(), "Is everything in order?")
	require.NoError(t, err)
	assert.True(t, yes)
	assert.Empty(t, reason)
}

func TestPipeline_YesNo_RetriesMalformedThenSucceeds(t *testing.T) {
	ai := &mocks.Completer{Replies: []string{"maybe?", "NO, the list is short"}}
	p := NewPipeline(ai, &mocks.Agent{}, pipelineCollection(), nil, PipelineConfig{RetryDelay: 0})

	yes, reason, err := p.YesNo(context.Background(), "Done?")
	require.NoError(t, err)
	assert.False(t, yes)
	assert.Equal(t, "the list is short", reason)
	assert.Len(t, ai.Calls, 2)
}

func TestPipeline_YesNo_HardErrorAfterAllAttempts(t *testing.T) {
	ai := &mocks.Completer{Replies: []string{"I'd rather not say"}}
	p := NewPipeline(ai, &mocks.Agent{}, pipelineCollection(), nil, PipelineConfig{RetryDelay: 0})

	_, _, err := p.YesNo(context.Background(), "Done?")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedReply)
	assert.Len(t, ai.Calls, DefaultMaxAttempts)
}

func TestPipeline_DetectMissing_PromptCarriesRoster(t *testing.T) {
	collection := pipelineCollection()
	ai := &mocks.Completer{Replies: []string{`["Gandalf"]`}}
	p := NewPipeline(ai, &mocks.Agent{}, collection, nil, PipelineConfig{RetryDelay: 0})

	missing, err := p.DetectMissing(context.Background(), "Gandalf met Frodo.")

	require.NoError(t, err)
	assert.Equal(t, []string{"Gandalf"}, missing)
	require.Len(t, ai.Calls, 1)
	assert.Contains(t, ai.Calls[0].SystemPrompt, "Frodo Baggins")
	assert.Contains(t, ai.Calls[0].SystemPrompt, "Gandalf met Frodo.")
}

func TestParseNameList(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{
			name: "plain array",
			raw:  `["Gandalf", "Samwise Gamgee"]`,
			want: []string{"Gandalf", "Samwise Gamgee"},
		},
		{
			name: "fenced json",
			raw:  "```json\n[\"Gandalf\"]\n```",
			want: []string{"Gandalf"},
		},
		{
			name: "bare fence",
			raw:  "```\n[\"Gandalf\"]\n```",
			want: []string{"Gandalf"},
		},
		{
			name: "empty array",
			raw:  `[]`,
			want: []string{},
		},
		{
			name: "numbers coerced, other types dropped",
			raw:  `["Gandalf", 7, true, null, {"name": "x"}]`,
			want: []string{"Gandalf", "7"},
		},
		{name: "object top level", raw: `{"names": []}`, wantErr: true},
		{name: "null top level", raw: `null`, wantErr: true},
		{name: "fenced null", raw: "```json\nnull\n```", wantErr: true},
		{name: "empty reply", raw: "", wantErr: true},
		{name: "prose", raw: "There are no new characters.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseNameList(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRetryParse_SucceedsAfterFailure(t *testing.T) {
	calls := 0
	got, err := retryParse(context.Background(), zap.NewNop(), "test", 3, 0,
		func(context.Context) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("transient")
			}
			return "ok", nil
		},
		func(raw string) (string, error) { return raw, nil },
	)

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
}

func TestRetryParse_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := retryParse(ctx, zap.NewNop(), "test", 3, 0,
		func(context.Context) (string, error) { calls++; return "ok", nil },
		func(raw string) (string, error) { return raw, nil },
	)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestRetryParse_AttemptsExhausted(t *testing.T) {
	sentinel := errors.New("always broken")
	calls := 0
	_, err := retryParse(context.Background(), zap.NewNop(), "test", 3, 0,
		func(context.Context) (string, error) { calls++; return "junk", nil },
		func(string) (string, error) { return "", sentinel },
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "3 attempts exhausted")
	assert.Equal(t, 3, calls)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
	// Rune slicing keeps multibyte text intact.
	assert.Equal(t, "Фро...", truncate("Фродо Бэггинс", 3))
}
