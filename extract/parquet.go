package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/parquet-go/parquet-go"
)

// ParquetExtractor streams text out of Parquet datasets, the column format
// large scraped corpora ship in. Each row's string cells are joined with
// spaces and rows are joined with newlines, so one file becomes one
// document with its row count carried in Pages.
type ParquetExtractor struct {
	// TextColumn restricts extraction to a single named column. When
	// empty, every string-valued cell contributes, which handles datasets
	// whose text column is named differently from release to release.
	TextColumn string
}

// CanExtract returns true for Parquet content types or .parquet extensions.
func (pe *ParquetExtractor) CanExtract(contentType, path string) bool {
	if strings.Contains(contentType, "application/vnd.apache.parquet") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(path), ".parquet")
}

// Extract reads all row groups and collects the text cells.
func (pe *ParquetExtractor) Extract(path, sourceURL string, content []byte) (*Document, error) {
	f, err := parquet.OpenFile(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	column := -1
	if pe.TextColumn != "" {
		leaf, ok := f.Schema().Lookup(pe.TextColumn)
		if !ok {
			return nil, fmt.Errorf("parquet column %q not found in %s", pe.TextColumn, path)
		}
		column = leaf.ColumnIndex
	}

	var rowTexts []string
	rowCount := 0

	for _, rowGroup := range f.RowGroups() {
		rows := rowGroup.Rows()
		buf := make([]parquet.Row, 64)

		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				rowCount++
				if text := rowText(row, column); text != "" {
					rowTexts = append(rowTexts, text)
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				rows.Close()
				return nil, fmt.Errorf("read parquet rows: %w", err)
			}
		}
		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("close parquet row reader: %w", err)
		}
	}

	return &Document{
		Format:   FormatParquet,
		Text:     strings.Join(rowTexts, "\n"),
		Pages:    rowCount,
		Metadata: map[string]any{"rows": rowCount},
	}, nil
}

// rowText joins a row's string cells with spaces. A column of -1 means all
// columns; byte-array cells that do not decode as UTF-8 are skipped rather
// than poisoning the corpus with binary blobs.
func rowText(row parquet.Row, column int) string {
	var parts []string
	for _, value := range row {
		if column >= 0 && value.Column() != column {
			continue
		}
		if value.IsNull() || value.Kind() != parquet.ByteArray {
			continue
		}
		s := strings.TrimSpace(value.String())
		if s == "" || !utf8.ValidString(s) {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
