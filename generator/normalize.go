package generator

import (
	"errors"
	"strings"
)

// ErrNoValidInput means no field carried usable text; the model must not be called.
var ErrNoValidInput = errors.New("no valid property details provided")

// Normalize 把调用方字段转换为生成请求，只保留非空文本字段并保持原有顺序。
func Normalize(fields FieldSet, model string) (GenerationRequest, error) {
	var sections []Section
	for _, f := range fields {
		if f.Value.Kind != KindText {
			continue
		}
		content := strings.TrimSpace(f.Value.Text)
		if content == "" {
			continue
		}
		sections = append(sections, Section{
			Label:   strings.ReplaceAll(f.Name, "_", " "),
			Content: content,
		})
	}
	if len(sections) == 0 {
		return GenerationRequest{}, ErrNoValidInput
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return GenerationRequest{
		SystemInstruction: SystemInstruction,
		Sections:          sections,
		Model:             strings.TrimSpace(model),
		Temperature:       DefaultTemperature,
	}, nil
}
