package llm

import (
	"context"
	"errors"
)

// Client abstracts text-generation providers for resume feedback.
type Client interface {
	Review(ctx context.Context, resumeText string) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm client not configured")

// PlaceholderClient is a stub implementation used when no provider is wired.
type PlaceholderClient struct{}

// Review returns ErrNotConfigured.
func (PlaceholderClient) Review(ctx context.Context, resumeText string) (string, error) {
	_ = ctx
	_ = resumeText
	return "", ErrNotConfigured
}
