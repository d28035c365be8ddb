package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelector lists the elements whose text stands on its own. Elements
// matching it that contain another match are treated as containers and
// skipped, so nested blocks are not emitted twice.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, td, th, blockquote, pre, figcaption"

// HTMLExtractor extracts visible text from HTML pages using goquery.
// Script, style and page-chrome elements are dropped; remaining block
// elements become paragraphs separated by blank lines, which the healer
// later treats as hard boundaries.
type HTMLExtractor struct{}

// CanExtract returns true for HTML content types or .html/.htm extensions.
func (he *HTMLExtractor) CanExtract(contentType, path string) bool {
	if strings.Contains(contentType, "text/html") {
		return true
	}
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}

// Extract parses HTML and returns its visible text.
func (he *HTMLExtractor) Extract(path, sourceURL string, content []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	metadata := make(map[string]any)
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		metadata["title"] = title
	}

	doc.Find("script, style, noscript, iframe, nav, header, footer").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var blocks []string
	root.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		if text := collapseSpaces(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})

	text := strings.Join(blocks, "\n\n")
	if text == "" {
		text = collapseSpaces(root.Text())
	}

	if len(metadata) == 0 {
		metadata = nil
	}
	return &Document{
		Format:   FormatHTML,
		Text:     text,
		Metadata: metadata,
	}, nil
}

// collapseSpaces reduces all intra-block whitespace to single spaces.
// Source-formatting newlines inside an HTML block carry no meaning, and
// leaving them in would read as OCR line breaks downstream.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
