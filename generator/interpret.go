package generator

import (
	"strings"

	"github.com/tidwall/gjson"
)

const fence = "```"

// StripCodeFence removes a Markdown code fence the model may wrap its JSON in.
func StripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, fence) {
		return text
	}
	text = strings.TrimPrefix(text, fence)
	text = strings.TrimLeft(text, " \t")
	if i := languageTagLen(text); i > 0 {
		text = text[i:]
	}
	text = strings.ReplaceAll(text, fence, "")
	return strings.TrimSpace(text)
}

// languageTagLen 返回开头语言标记（如 json）的长度，没有则为 0。
func languageTagLen(s string) int {
	n := 0
	for n < len(s) {
		c := s[n]
		isTag := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-' || c == '+'
		if !isTag {
			break
		}
		n++
	}
	if n == len(s) {
		return 0
	}
	return n
}

// ParseBrochure reports ok only when text is a JSON object whose headline and
// summary are strings and whose bulletPoints is an array of strings.
func ParseBrochure(text string) (BrochureOutput, bool) {
	if !gjson.Valid(text) {
		return BrochureOutput{}, false
	}
	root := gjson.Parse(text)
	if !root.IsObject() {
		return BrochureOutput{}, false
	}
	// 重复的键以最后一次出现为准。
	var headline, summary, bullets gjson.Result
	root.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "headline":
			headline = value
		case "summary":
			summary = value
		case "bulletPoints":
			bullets = value
		}
		return true
	})
	if headline.Type != gjson.String || summary.Type != gjson.String || !bullets.IsArray() {
		return BrochureOutput{}, false
	}
	items := bullets.Array()
	out := BrochureOutput{
		Headline:     headline.String(),
		Summary:      summary.String(),
		BulletPoints: make([]string, 0, len(items)),
	}
	for _, item := range items {
		if item.Type != gjson.String {
			return BrochureOutput{}, false
		}
		out.BulletPoints = append(out.BulletPoints, item.String())
	}
	return out, true
}

// Interpret never fails: an unparseable reply becomes FallbackBrochure.
func Interpret(raw string) BrochureOutput {
	out, _ := interpret(raw)
	return out
}

// interpret applies the fallback policy and reports whether the reply parsed.
func interpret(raw string) (BrochureOutput, bool) {
	out, ok := ParseBrochure(StripCodeFence(raw))
	if !ok {
		return FallbackBrochure(), false
	}
	return out, true
}
