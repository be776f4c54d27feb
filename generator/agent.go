package generator

import (
	"context"
	"errors"

	"property_brochure_writer/logger"
)

// Agent 负责一次完整的生成流程：字段规整、调用模型、解析结果。
type Agent struct {
	llm   LLMClient
	model string
	log   *logger.Logger
}

func NewAgent(llm LLMClient, model string, log *logger.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Agent{llm: llm, model: model, log: log.With("component", "generator")}, nil
}

// Generate rejects empty input before any model call, makes exactly one call
// otherwise, and converts a malformed reply into FallbackBrochure.
func (a *Agent) Generate(ctx context.Context, fields FieldSet) (BrochureOutput, error) {
	req, err := Normalize(fields, a.model)
	if err != nil {
		return BrochureOutput{}, err
	}

	a.log.Debug("calling llm", "model", req.Model, "sections", len(req.Sections))
	raw, err := a.llm.Complete(ctx, req)
	if err != nil {
		return BrochureOutput{}, &UpstreamError{Err: err}
	}

	out, ok := interpret(raw)
	if !ok {
		a.log.Warn("invalid JSON from llm, returning placeholder", "model", req.Model, "raw", raw)
	}
	return out, nil
}
