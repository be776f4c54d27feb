package generator

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryingLLM retries failed calls with exponential backoff. It only covers
// call failures; a reply that arrives malformed is never retried.
type RetryingLLM struct {
	next            LLMClient
	maxRetries      uint
	initialInterval time.Duration
}

// NewRetryingLLM returns next unchanged when maxRetries is not positive.
func NewRetryingLLM(next LLMClient, maxRetries int) LLMClient {
	if maxRetries <= 0 {
		return next
	}
	return &RetryingLLM{
		next:            next,
		maxRetries:      uint(maxRetries),
		initialInterval: 500 * time.Millisecond,
	}
}

func (r *RetryingLLM) Complete(ctx context.Context, req GenerationRequest) (string, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval

	op := func() (string, error) {
		out, err := r.next.Complete(ctx, req)
		if err != nil && ctx.Err() != nil {
			return "", backoff.Permanent(err)
		}
		return out, err
	}
	return backoff.Retry(ctx, op, backoff.WithBackOff(b), backoff.WithMaxTries(r.maxRetries+1))
}
