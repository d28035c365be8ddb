package extract

import (
	"testing"

	"github.com/parquet-go/parquet-go"
)

func TestRowText(t *testing.T) {
	row := parquet.Row{
		parquet.ValueOf("Саха").Level(0, 0, 0),
		parquet.ValueOf(int64(1925)).Level(0, 0, 1),
		parquet.ValueOf("сирэ").Level(0, 0, 2),
		parquet.ValueOf(nil).Level(0, 0, 3),
		parquet.ValueOf("  ").Level(0, 0, 4),
	}

	if got, want := rowText(row, -1), "Саха сирэ"; got != want {
		t.Errorf("rowText(all columns) = %q, want %q", got, want)
	}
	if got, want := rowText(row, 2), "сирэ"; got != want {
		t.Errorf("rowText(column 2) = %q, want %q", got, want)
	}
	if got := rowText(row, 1); got != "" {
		t.Errorf("rowText(numeric column) = %q, want empty", got)
	}
}

func TestParquetExtractor_CanExtract(t *testing.T) {
	pe := &ParquetExtractor{}
	if !pe.CanExtract("application/vnd.apache.parquet", "x") {
		t.Error("CanExtract(parquet content type) = false, want true")
	}
	if !pe.CanExtract("application/octet-stream", "books.PARQUET") {
		t.Error("CanExtract(.PARQUET) = false, want true")
	}
	if pe.CanExtract("text/plain", "notes.txt") {
		t.Error("CanExtract(text) = true, want false")
	}
}

func TestParquetExtractor_InvalidFile(t *testing.T) {
	pe := &ParquetExtractor{}
	if _, err := pe.Extract("bad.parquet", "", []byte("not a parquet file")); err == nil {
		t.Fatal("Extract() expected error for invalid parquet content")
	}
}
