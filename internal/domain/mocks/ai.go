// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"errors"

	"github.com/madnessandcourage/fantranslate/internal/domain/ports"
)

// CompleterCall records one Complete invocation.
type CompleterCall struct {
	SystemPrompt string
	UserPrompt   string
}

// Completer is a scripted mock of ports.Completer. Replies are consumed in
// order; when the queue runs dry the last reply is repeated, so a single
// scripted reply behaves like a fixed response.
type Completer struct {
	Replies []string
	Err     error

	Calls []CompleterCall
	next  int
}

// Complete returns the next scripted reply or the configured error.
func (m *Completer) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	m.Calls = append(m.Calls, CompleterCall{SystemPrompt: systemPrompt, UserPrompt: userPrompt})
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Replies) == 0 {
		return "", errors.New("mock completer has no scripted replies")
	}
	i := m.next
	if i >= len(m.Replies) {
		i = len(m.Replies) - 1
	}
	m.next++
	return m.Replies[i], nil
}

// AgentCall records one Run invocation.
type AgentCall struct {
	SystemPrompt string
	UserQuery    string
	ToolNames    []string
}

// Agent is a scripted mock of ports.Agent. RunFunc, when set, replaces the
// canned behavior entirely; tests use it to drive tool handlers the way a
// real agent would.
type Agent struct {
	Final   string
	Err     error
	RunFunc func(ctx context.Context, systemPrompt, userQuery string, tools []ports.Tool, prior []ports.Turn) (string, []ports.Turn, error)

	Calls []AgentCall
}

// Run invokes RunFunc when set, otherwise returns the canned final text.
func (m *Agent) Run(ctx context.Context, systemPrompt, userQuery string, tools []ports.Tool, prior []ports.Turn) (string, []ports.Turn, error) {
	call := AgentCall{SystemPrompt: systemPrompt, UserQuery: userQuery}
	for _, t := range tools {
		call.ToolNames = append(call.ToolNames, t.Name)
	}
	m.Calls = append(m.Calls, call)

	if m.RunFunc != nil {
		return m.RunFunc(ctx, systemPrompt, userQuery, tools, prior)
	}
	if m.Err != nil {
		return "", prior, m.Err
	}
	return m.Final, append(prior, ports.Turn{Role: "assistant", Content: m.Final}), nil
}
