package client

import (
	"context"
)

// TextClient sends a single user prompt to a language model and returns the
// reply text
type TextClient interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}
