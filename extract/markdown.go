package extract

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// MarkdownExtractor extracts plain text from Markdown using a goldmark AST
// walk. YAML frontmatter is parsed into metadata, block elements are
// separated by blank lines, and code blocks are skipped since they are not
// corpus prose.
type MarkdownExtractor struct{}

// CanExtract returns true for markdown content types or .md/.markdown/.mdx
// extensions.
func (me *MarkdownExtractor) CanExtract(contentType, path string) bool {
	if strings.Contains(contentType, "text/markdown") ||
		strings.Contains(contentType, "text/x-markdown") {
		return true
	}
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".md") ||
		strings.HasSuffix(lower, ".markdown") ||
		strings.HasSuffix(lower, ".mdx")
}

// Extract parses markdown and returns its prose text.
func (me *MarkdownExtractor) Extract(path, sourceURL string, content []byte) (*Document, error) {
	frontmatter, body := splitFrontmatter(content)

	md := goldmark.New()
	reader := text.NewReader(body)
	root := md.Parser().Parse(reader)

	var buf bytes.Buffer
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(body))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			if buf.Len() > 0 {
				buf.WriteString("\n\n")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	var metadata map[string]any
	if frontmatter != nil {
		metadata = map[string]any{"frontmatter": frontmatter}
		if title, ok := frontmatter["title"].(string); ok && title != "" {
			metadata["title"] = title
		}
	}

	return &Document{
		Format:   FormatMarkdown,
		Text:     strings.TrimSpace(buf.String()),
		Metadata: metadata,
	}, nil
}

// splitFrontmatter strips a leading YAML frontmatter block and returns its
// parsed form alongside the remaining content. Content without valid
// frontmatter is returned unchanged.
func splitFrontmatter(content []byte) (map[string]any, []byte) {
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return nil, content
	}

	remaining := content[4:]
	endIdx := bytes.Index(remaining, []byte("\n---\n"))
	if endIdx == -1 {
		endIdx = bytes.Index(remaining, []byte("\n---\r\n"))
		if endIdx == -1 {
			return nil, content
		}
	}

	var frontmatter map[string]any
	if err := yaml.Unmarshal(remaining[:endIdx], &frontmatter); err != nil {
		return nil, content
	}

	contentStart := 4 + endIdx + 5
	if contentStart >= len(content) {
		return frontmatter, []byte{}
	}
	return frontmatter, content[contentStart:]
}
