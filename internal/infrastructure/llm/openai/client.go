// Package openai implements the AI collaborator ports on an
// OpenAI-compatible chat API (OpenRouter by default).
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/madnessandcourage/fantranslate/internal/domain/ports"
	"github.com/madnessandcourage/fantranslate/internal/infrastructure/config"
)

// maxToolIterations bounds the agent's tool-calling loop. A run that still
// wants tools after this many rounds is cut off with whatever text the
// model produced last.
const maxToolIterations = 10

// Client implements ports.Completer and ports.Agent.
type Client struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
	timeout time.Duration
}

// NewClient creates a client from the project's AI settings.
func NewClient(cfg config.AIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("AI API key is required (set OPENROUTER_API_KEY)")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "openai/gpt-4o-mini"
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &Client{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		timeout: timeout,
	}, nil
}

// chat performs one rate-limited, timeout-bounded chat round-trip.
func (c *Client) chat(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(callCtx, req)
	if err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("calling chat API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return openai.ChatCompletionMessage{}, errors.New("no response from chat API")
	}
	return resp.Choices[0].Message, nil
}

// Complete sends a system and user prompt and returns the reply text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	msg, err := c.chat(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

// Run drives a tool-calling conversation until the model stops requesting
// tools or the iteration bound is hit. Tool handler failures are folded
// into the tool reply so the model can correct course.
func (c *Client) Run(ctx context.Context, systemPrompt, userQuery string, tools []ports.Tool, prior []ports.Turn) (string, []ports.Turn, error) {
	byName := make(map[string]ports.Tool, len(tools))
	oaTools := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		byName[t.Name] = t
		oaTools = append(oaTools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
	for _, turn := range prior {
		messages = append(messages, openai.ChatCompletionMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userQuery})

	var final string
	for i := 0; i < maxToolIterations; i++ {
		msg, err := c.chat(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			Tools:       oaTools,
			Temperature: 0.1,
		})
		if err != nil {
			return "", turnsOf(messages), err
		}

		messages = append(messages, msg)
		final = msg.Content

		if len(msg.ToolCalls) == 0 {
			break
		}

		for _, call := range msg.ToolCalls {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    c.invokeTool(ctx, byName, call),
				ToolCallID: call.ID,
			})
		}
	}

	return final, turnsOf(messages), nil
}

// invokeTool dispatches one tool call, replying with an error string for
// unknown tools or handler failures.
func (c *Client) invokeTool(ctx context.Context, byName map[string]ports.Tool, call openai.ToolCall) string {
	tool, ok := byName[call.Function.Name]
	if !ok {
		return fmt.Sprintf("Error: unknown tool %q", call.Function.Name)
	}
	result, err := tool.Handler(ctx, json.RawMessage(call.Function.Arguments))
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return result
}

// turnsOf projects the chat transcript onto conversation turns, dropping
// the system prompt.
func turnsOf(messages []openai.ChatCompletionMessage) []ports.Turn {
	turns := make([]ports.Turn, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == openai.ChatMessageRoleSystem {
			continue
		}
		turns = append(turns, ports.Turn{Role: msg.Role, Content: msg.Content})
	}
	return turns
}
