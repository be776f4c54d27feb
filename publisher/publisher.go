package publisher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"property_brochure_writer/generator"
	"property_brochure_writer/logger"
)

// Publisher writes generated brochures to disk as standalone HTML pages.
type Publisher struct {
	md  goldmark.Markdown
	log *logger.Logger
}

func New(log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{md: goldmark.New(), log: log.With("component", "publisher")}
}

// RenderMarkdown lays the brochure out as a heading, the summary paragraph and a bullet list.
// Model text is escaped so it cannot open extra headings, lists or code blocks.
func RenderMarkdown(b generator.BrochureOutput) string {
	var sb strings.Builder
	if h := foldLine(b.Headline); h != "" {
		sb.WriteString("# ")
		sb.WriteString(escapeBlockStart(h))
		sb.WriteString("\n\n")
	}
	if s := renderSummary(b.Summary); s != "" {
		sb.WriteString(s)
		sb.WriteString("\n\n")
	}
	for _, bp := range b.BulletPoints {
		bp = foldLine(bp)
		if bp == "" {
			continue
		}
		sb.WriteString("- ")
		sb.WriteString(escapeBlockStart(bp))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// foldLine collapses all whitespace, newlines included, into single spaces.
func foldLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// renderSummary keeps blank-line paragraph breaks and escapes every line.
func renderSummary(s string) string {
	var paras []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
		var lines []string
		for _, line := range strings.Split(para, "\n") {
			if line = foldLine(line); line != "" {
				lines = append(lines, escapeBlockStart(line))
			}
		}
		if len(lines) > 0 {
			paras = append(paras, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(paras, "\n\n")
}

// escapeBlockStart 转义行首的块级标记（标题、列表、引用、代码围栏、分隔线）。
func escapeBlockStart(line string) string {
	if line == "" {
		return line
	}
	switch line[0] {
	case '#', '>', '-', '+', '*', '=', '_', '|', '`', '~':
		return "\\" + line
	}
	i := 0
	for i < len(line) && i < 9 && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return line[:i] + "\\" + line[i:]
	}
	return line
}

// RenderHTML converts the Markdown layout to an HTML fragment.
func (p *Publisher) RenderHTML(b generator.BrochureOutput) (string, error) {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(RenderMarkdown(b)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Publish 生成完整 HTML 页面并写入 path。
func (p *Publisher) Publish(ctx context.Context, b generator.BrochureOutput, path string) error {
	if path == "" {
		return errors.New("output path is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	fragment, err := p.RenderHTML(b)
	if err != nil {
		return fmt.Errorf("render brochure: %w", err)
	}

	title := b.Headline
	if strings.TrimSpace(title) == "" {
		title = "Property Brochure"
	}
	page := fmt.Sprintf("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(title), fragment)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return err
	}
	p.log.Info("brochure written", "path", path, "bullets", len(b.BulletPoints))
	return nil
}
