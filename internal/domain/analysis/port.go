package analysis

import "context"

// Gateway is the remote inference endpoint. Implementations return
// ErrRateLimited, ErrQuotaExhausted or *GatewayError on failure.
type Gateway interface {
	Analyze(ctx context.Context, req Request) (Result, error)
}

// PromptLibrary resolves the system prompt for a category.
type PromptLibrary interface {
	PromptFor(c Category) string
}
