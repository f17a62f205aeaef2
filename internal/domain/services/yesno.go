package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedReply is returned when the collaborator keeps violating the
// constrained YES / "NO, <reason>" protocol after every retry.
var ErrMalformedReply = errors.New("malformed yes/no reply")

const noPrefix = "NO, "

// yesNoSystemPrompt steers the model into the strict answer format with
// one-shot positive and negative examples plus counter-examples.
func yesNoSystemPrompt() string {
	return NewPrompt().
		Section("Task",
			"Answer the user's question with a strict verdict.").
		Section("Output Format",
			"Reply with exactly YES if the answer is yes.\n"+
				"Reply with NO, <reason> if the answer is no, where <reason> is a short explanation.\n"+
				"Do not add anything else: no punctuation after YES, no preamble, no markdown.").
		Example("Is 2 + 2 equal to 4?", "YES").
		Example("Is the sky green?", "NO, the sky is blue").
		FailureExample("Is 2 + 2 equal to 4?", "Yes, it is!").
		FailureExample("Is the sky green?", "The sky is actually blue, so no.").
		Build()
}

// parseYesNo enforces the protocol strictly: exactly "YES", or a "NO, "
// prefix with a non-empty reason tail. Anything else is malformed.
func parseYesNo(raw string) (bool, string, error) {
	reply := strings.TrimSpace(raw)
	if reply == "YES" {
		return true, "", nil
	}
	if strings.HasPrefix(reply, noPrefix) {
		reason := strings.TrimSpace(strings.TrimPrefix(reply, noPrefix))
		if reason != "" {
			return false, reason, nil
		}
	}
	return false, "", fmt.Errorf("%w: %q", ErrMalformedReply, reply)
}
