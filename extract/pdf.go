package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// tolerances are the (x, y) point distances tried when assembling page
// text, tightest first. Tight tolerances keep genuinely separate glyph runs
// apart but shred words in PDFs with loose glyph placement; wide tolerances
// glue those back together. Each attempt is scored and the first one whose
// single-character word ratio clears the badness threshold wins.
var tolerances = [][2]float64{
	{1, 1},
	{3, 3},
	{5, 5},
}

// PDFExtractor extracts per-page text from PDF files. Scanned Sakha books
// are the dominant input, so assembly is tuned for OCR output with
// unreliable glyph spacing.
type PDFExtractor struct {
	// BadnessThreshold overrides DefaultBadnessThreshold when positive.
	BadnessThreshold float64
}

// CanExtract returns true for PDF content types or .pdf extensions.
func (pe *PDFExtractor) CanExtract(contentType, path string) bool {
	if strings.Contains(contentType, "application/pdf") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}

func (pe *PDFExtractor) threshold() float64 {
	if pe.BadnessThreshold > 0 {
		return pe.BadnessThreshold
	}
	return DefaultBadnessThreshold
}

// Extract reads every page and joins the page texts with blank lines, so
// page breaks survive as hard boundaries.
func (pe *PDFExtractor) Extract(path, sourceURL string, content []byte) (*Document, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("read PDF: %w", err)
	}

	totalPages := reader.NumPage()
	pageTexts := make([]string, 0, totalPages)

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		pageText := pe.extractPageText(page)
		if pageText == "" {
			continue
		}
		pageTexts = append(pageTexts, pageText)
	}

	return &Document{
		Format:   FormatPDF,
		Text:     strings.Join(pageTexts, "\n\n"),
		Pages:    totalPages,
		Metadata: pdfMetadata(reader, path),
	}, nil
}

// extractPageText assembles page text at each tolerance level and keeps the
// first attempt that scores below the badness threshold, falling back to
// the best-scoring attempt. When the page carries no positioned text at
// all, the library's plain-text decoding is the last resort.
func (pe *PDFExtractor) extractPageText(page pdf.Page) string {
	texts := positionedTexts(page)

	var attempts []string
	if len(texts) > 0 {
		for _, tol := range tolerances {
			attempts = append(attempts, assemblePage(texts, tol[0], tol[1]))
		}
	}
	if len(attempts) == 0 {
		plain, err := page.GetPlainText(nil)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(plain)
	}

	return chooseText(attempts, pe.threshold())
}

// chooseText picks the first candidate whose badness clears the threshold,
// otherwise the candidate with the lowest badness. Empty candidates are
// ignored.
func chooseText(candidates []string, threshold float64) string {
	best := ""
	bestScore := 2.0

	for _, text := range candidates {
		if text == "" {
			continue
		}
		score := badness(text)
		if score <= threshold {
			return text
		}
		if score < bestScore {
			bestScore = score
			best = text
		}
	}
	return best
}

// positionedTexts returns the page's text elements with empty and
// newline-only entries dropped.
func positionedTexts(page pdf.Page) []pdf.Text {
	content := page.Content()
	texts := make([]pdf.Text, 0, len(content.Text))
	for _, t := range content.Text {
		s := strings.TrimSpace(t.S)
		if s != "" && s != "\n" {
			texts = append(texts, t)
		}
	}
	return texts
}

// assemblePage groups text elements into rows within yTol points of each
// other, orders rows top to bottom, and joins elements left to right with a
// space wherever the horizontal gap exceeds xTol points.
func assemblePage(texts []pdf.Text, xTol, yTol float64) string {
	type rowBucket struct {
		yMin, yMax float64
		texts      []pdf.Text
	}

	var buckets []rowBucket
	for _, t := range texts {
		found := false
		for i := range buckets {
			if t.Y >= buckets[i].yMin-yTol && t.Y <= buckets[i].yMax+yTol {
				buckets[i].texts = append(buckets[i].texts, t)
				if t.Y < buckets[i].yMin {
					buckets[i].yMin = t.Y
				}
				if t.Y > buckets[i].yMax {
					buckets[i].yMax = t.Y
				}
				found = true
				break
			}
		}
		if !found {
			buckets = append(buckets, rowBucket{yMin: t.Y, yMax: t.Y, texts: []pdf.Text{t}})
		}
	}

	// PDF Y coordinates grow upward, so the top row has the largest Y.
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].yMax > buckets[j].yMax
	})

	var b strings.Builder
	for rowIdx := range buckets {
		row := buckets[rowIdx].texts
		sort.Slice(row, func(i, j int) bool {
			return row[i].X < row[j].X
		})

		if rowIdx > 0 {
			b.WriteByte('\n')
		}
		for i, t := range row {
			if i > 0 {
				gap := t.X - (row[i-1].X + row[i-1].W)
				if gap > xTol {
					b.WriteByte(' ')
				}
			}
			b.WriteString(t.S)
		}
	}
	return strings.TrimSpace(b.String())
}

// pdfMetadata pulls the common fields out of the PDF Info dictionary. The
// file name stands in for a missing title.
func pdfMetadata(reader *pdf.Reader, path string) map[string]any {
	metadata := make(map[string]any)

	trailer := reader.Trailer()
	if !trailer.IsNull() {
		if info := trailer.Key("Info"); !info.IsNull() {
			for key, field := range map[string]string{
				"Title":        "title",
				"Author":       "author",
				"Creator":      "creator",
				"Producer":     "producer",
				"CreationDate": "creation_date",
			} {
				if v := info.Key(key); !v.IsNull() {
					if s := v.Text(); s != "" {
						metadata[field] = s
					}
				}
			}
		}
	}

	if _, ok := metadata["title"]; !ok {
		metadata["title"] = filepath.Base(path)
	}
	return metadata
}
