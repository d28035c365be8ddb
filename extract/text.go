package extract

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextExtractor handles plain-text inputs. Scanned-book dumps often arrive
// with a BOM, stray invalid bytes, and decomposed accents; the extractor
// strips the BOM, substitutes U+FFFD for invalid bytes, and normalizes to
// NFC so the Sakha diacritics compare as single runes downstream.
type TextExtractor struct{}

// CanExtract returns true for plain-text content types or .txt extensions.
func (te *TextExtractor) CanExtract(contentType, path string) bool {
	if strings.Contains(contentType, "text/plain") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(path), ".txt")
}

// Extract decodes content as UTF-8 text.
func (te *TextExtractor) Extract(path, sourceURL string, content []byte) (*Document, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	content = bytes.ToValidUTF8(content, []byte(string(utf8.RuneError)))
	content = norm.NFC.Bytes(content)

	return &Document{
		Format: FormatText,
		Text:   string(content),
	}, nil
}
