package port

import "context"

// Completer abstracts the chat-completion backend used for audits.
// Implementations make exactly one request per call and never retry.
type Completer interface {
	// ModelName returns the identifier of the model being used.
	ModelName() string

	// Complete sends prompt as a single user message and returns the reply text unmodified.
	Complete(ctx context.Context, prompt string) (string, error)
}
