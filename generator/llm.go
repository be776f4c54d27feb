package generator

import (
	"context"
	"errors"
	"fmt"
)

// LLMClient 抽象大模型客户端，便于替换/Mock。每次调用对应一次外部请求。
type LLMClient interface {
	Complete(ctx context.Context, req GenerationRequest) (string, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// ErrEmptyCompletion is returned when the service answers without a usable choice.
var ErrEmptyCompletion = errors.New("llm returned no completion")

// UpstreamError wraps any failure of the model call itself.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("llm call failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
