// Package ports defines interfaces for external service communication.
package ports

import (
	"context"
	"encoding/json"
)

// Completer is the plain text-completion collaborator. Implementations own
// the transport only; retry policy belongs to the caller.
type Completer interface {
	// Complete sends a system and user prompt and returns the reply text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Turn is one exchange in an agent conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tool is one callable operation exposed to the agent. Parameters is a
// JSON-schema object describing the arguments; the handler receives the raw
// argument JSON and replies with a string observation.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Handler     func(ctx context.Context, args json.RawMessage) (string, error)
}

// Agent is the tool-calling collaborator. Side effects happen through tool
// handlers; callers observe only the final text and the updated
// conversation, never the individual tool calls.
type Agent interface {
	Run(ctx context.Context, systemPrompt, userQuery string, tools []Tool, prior []Turn) (string, []Turn, error)
}
