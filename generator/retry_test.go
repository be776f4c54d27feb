package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// flakyLLM fails the first failures calls.
type flakyLLM struct {
	failures int
	calls    int
}

func (f *flakyLLM) Complete(_ context.Context, _ GenerationRequest) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("temporary outage")
	}
	return validReply, nil
}

func fastRetry(next LLMClient, maxRetries int) LLMClient {
	c := NewRetryingLLM(next, maxRetries)
	if r, ok := c.(*RetryingLLM); ok {
		r.initialInterval = time.Millisecond
	}
	return c
}

func TestNewRetryingLLMDisabledReturnsNext(t *testing.T) {
	next := &flakyLLM{}
	require.Same(t, LLMClient(next), NewRetryingLLM(next, 0))
}

func TestRetryingLLMRecovers(t *testing.T) {
	next := &flakyLLM{failures: 2}
	out, err := fastRetry(next, 2).Complete(context.Background(), GenerationRequest{})
	require.NoError(t, err)
	require.Equal(t, validReply, out)
	require.Equal(t, 3, next.calls)
}

func TestRetryingLLMGivesUp(t *testing.T) {
	next := &flakyLLM{failures: 5}
	_, err := fastRetry(next, 1).Complete(context.Background(), GenerationRequest{})
	require.Error(t, err)
	require.Equal(t, 2, next.calls)
}

func TestRetryingLLMStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	next := &flakyLLM{failures: 5}
	_, err := fastRetry(next, 3).Complete(ctx, GenerationRequest{})
	require.Error(t, err)
	require.LessOrEqual(t, next.calls, 1)
}
