package generator

import (
	"context"
	"strings"

	"github.com/tidwall/sjson"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, req GenerationRequest) (string, error) {
	bullets := make([]string, 0, len(req.Sections))
	contents := make([]string, 0, len(req.Sections))
	for _, s := range req.Sections {
		bullets = append(bullets, s.Label+": "+s.Content)
		contents = append(contents, s.Content)
	}

	out, err := sjson.Set("", "headline", "Welcome Home")
	if err != nil {
		return "", err
	}
	out, err = sjson.Set(out, "summary", strings.Join(contents, " "))
	if err != nil {
		return "", err
	}
	return sjson.Set(out, "bulletPoints", bullets)
}
