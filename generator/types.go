package generator

import "strings"

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-3.5-turbo"

// DefaultTemperature leaves room for stylistic variety while staying close to the supplied facts.
const DefaultTemperature = 0.7

// Section is one labelled block of the prompt body.
type Section struct {
	Label   string
	Content string
}

func (s Section) render() string {
	return s.Label + ":\n" + s.Content
}

// GenerationRequest is everything sent to the model for one brochure.
type GenerationRequest struct {
	SystemInstruction string
	Sections          []Section
	Model             string
	Temperature       float64
}

// Body renders the sections in input order.
func (r GenerationRequest) Body() string {
	parts := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		parts = append(parts, s.render())
	}
	return strings.Join(parts, "\n\n")
}

// BrochureOutput 是返回给调用方的结构，BulletPoints 永远不为 nil。
type BrochureOutput struct {
	Headline     string   `json:"headline"`
	Summary      string   `json:"summary"`
	BulletPoints []string `json:"bulletPoints"`
}

const fallbackBullet = "No bullet points returned."

// FallbackBrochure is returned when the model reply cannot be parsed.
func FallbackBrochure() BrochureOutput {
	return BrochureOutput{
		Headline:     "",
		Summary:      "",
		BulletPoints: []string{fallbackBullet},
	}
}
