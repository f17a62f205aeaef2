package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantYes    bool
		wantReason string
		wantErr    bool
	}{
		{name: "plain yes", raw: "YES", wantYes: true},
		{name: "yes with whitespace", raw: "  YES\n", wantYes: true},
		{name: "no with reason", raw: "NO, Gandalf was not added", wantReason: "Gandalf was not added"},
		{name: "no reason trimmed", raw: "NO,   missing Sam  ", wantReason: "missing Sam"},
		{name: "lowercase yes is malformed", raw: "yes", wantErr: true},
		{name: "chatty yes is malformed", raw: "Yes, it is!", wantErr: true},
		{name: "no without reason is malformed", raw: "NO, ", wantErr: true},
		{name: "bare no is malformed", raw: "NO", wantErr: true},
		{name: "empty reply is malformed", raw: "", wantErr: true},
		{name: "prose is malformed", raw: "The sky is blue, so no.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yes, reason, err := parseYesNo(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedReply)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantYes, yes)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestYesNoSystemPrompt_ContainsProtocol(t *testing.T) {
	prompt := yesNoSystemPrompt()

	assert.Contains(t, prompt, "** OUTPUT FORMAT **")
	assert.Contains(t, prompt, "Reply with exactly YES")
	assert.Contains(t, prompt, "<good_example>")
	assert.Contains(t, prompt, "<bad_example DON'T DO THIS>")
}
