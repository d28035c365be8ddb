// Package extract pulls raw text out of corpus inputs. Sources traverse a
// location (a directory tree, an S3 bucket, a set of web sites) and yield
// Documents; extractors turn one input format (PDF, HTML, Markdown, Parquet,
// plain text) into the text a Document carries. The package only extracts,
// it never cleans: feeding the result through a text cleaner is the
// caller's job.
package extract

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format identifies the input format a Document was extracted from.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatParquet  Format = "parquet"
)

// Document is one unit of extracted text.
type Document struct {
	// Name is the base file name of the input.
	Name string `json:"name"`

	// Path locates the input within its source: a path relative to the
	// traversal root, an object key, or a URL.
	Path string `json:"path"`

	// SourceURL is the remote address of the input, when it has one.
	SourceURL string `json:"source_url,omitempty"`

	Format Format `json:"format"`
	Text   string `json:"-"`

	// Pages counts printed pages for PDFs and rows for Parquet datasets.
	// Zero means the format has no such notion.
	Pages int `json:"pages,omitempty"`

	// Size is the byte size of the raw input content.
	Size int64 `json:"size"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// Chars returns the extracted text length in runes.
func (d Document) Chars() int {
	return utf8.RuneCountInString(d.Text)
}

// Source yields documents from some location. Traverse returns a channel of
// documents and a channel for a terminal error; both are closed when the
// traversal ends. Per-document failures are logged and skipped, they never
// appear on the error channel.
type Source interface {
	// Type returns the source type identifier (e.g. "filesystem", "s3", "web").
	Type() string

	// Traverse walks the source and yields extracted documents.
	Traverse(ctx context.Context) (<-chan Document, <-chan error)
}

// Extractor converts one input format into a Document.
type Extractor interface {
	// CanExtract reports whether this extractor handles the given content
	// type or file path.
	CanExtract(contentType, path string) bool

	// Extract parses content and returns the document text. The returned
	// document carries Format, Text, Pages and format-specific metadata;
	// Name, Path, SourceURL and Size are filled in by ExtractDocument.
	Extract(path, sourceURL string, content []byte) (*Document, error)
}

// DefaultExtractors returns the stock extractor set in dispatch order. The
// plain-text extractor goes last so that more specific formats win.
func DefaultExtractors() []Extractor {
	return []Extractor{
		&PDFExtractor{},
		&ParquetExtractor{},
		&MarkdownExtractor{},
		&HTMLExtractor{},
		&TextExtractor{},
	}
}

// ExtractorFor returns the first extractor claiming the content type and
// path, or nil if none does.
func ExtractorFor(extractors []Extractor, contentType, path string) Extractor {
	for _, ex := range extractors {
		if ex.CanExtract(contentType, path) {
			return ex
		}
	}
	return nil
}

// ExtractDocument detects the content type, dispatches to the matching
// extractor, and fills in the document fields shared by every format.
func ExtractDocument(extractors []Extractor, path, sourceURL string, content []byte) (*Document, error) {
	contentType := DetectContentType(path, content)

	ex := ExtractorFor(extractors, contentType, path)
	if ex == nil {
		return nil, fmt.Errorf("no extractor for %s (%s)", path, contentType)
	}

	doc, err := ex.Extract(path, sourceURL, content)
	if err != nil {
		return nil, err
	}

	doc.Name = filepath.Base(path)
	doc.Path = path
	doc.SourceURL = sourceURL
	doc.Size = int64(len(content))

	return doc, nil
}

// DetectContentType detects the MIME type from a file path.
func DetectContentType(path string, content []byte) string {
	ext := filepath.Ext(path)
	if ext != "" {
		mimeType := mime.TypeByExtension(ext)
		if mimeType != "" {
			return mimeType
		}
	}

	switch strings.ToLower(ext) {
	case ".md", ".markdown", ".mdx":
		return "text/markdown"
	case ".html", ".htm":
		return "text/html"
	case ".pdf":
		return "application/pdf"
	case ".parquet":
		return "application/vnd.apache.parquet"
	case ".txt":
		return "text/plain"
	}

	return "application/octet-stream"
}
