package corpus

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/antflydb/corpusaf/extract"
)

func TestNewWorkspace(t *testing.T) {
	root := t.TempDir()
	ws, err := NewWorkspace(root)
	if err != nil {
		t.Fatalf("NewWorkspace() error: %v", err)
	}
	defer ws.Close()

	dirName := filepath.Base(ws.Dir)
	if !regexp.MustCompile(`^\d{2}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}$`).MatchString(dirName) {
		t.Errorf("run directory = %q, want timestamped name", dirName)
	}
	if _, err := os.Stat(filepath.Join(ws.Dir, logFileName)); err != nil {
		t.Errorf("extraction log missing: %v", err)
	}
}

func TestWorkspace_LogExtraction(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace() error: %v", err)
	}
	defer ws.Close()

	docs := []extract.Document{
		{Name: "book.pdf", Format: extract.FormatPDF, Pages: 3, Size: 100, Text: "абв"},
		{Name: "data.parquet", Format: extract.FormatParquet, Pages: 40, Size: 512, Text: "тиэкис"},
		{Name: "plain.txt", Format: extract.FormatText, Size: 10, Text: "ыт"},
	}
	for _, doc := range docs {
		if err := ws.LogExtraction(doc); err != nil {
			t.Fatalf("LogExtraction(%s) error: %v", doc.Name, err)
		}
	}
	if err := ws.LogError("broken.pdf", "no trailer found"); err != nil {
		t.Fatalf("LogError() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(ws.Dir, logFileName))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("log has %d lines, want 4: %q", len(lines), lines)
	}

	checks := []struct {
		prefix string
		suffix string
	}{
		{"book.pdf - ", " - 3 chars - 100 bytes - 3 pages"},
		{"data.parquet - ", " - 6 chars - 512 bytes - 40 rows"},
		{"plain.txt - ", " - 2 chars - 10 bytes"},
		{"broken.pdf - ", " - ERROR: no trailer found"},
	}
	for i, check := range checks {
		if !strings.HasPrefix(lines[i], check.prefix) || !strings.HasSuffix(lines[i], check.suffix) {
			t.Errorf("line %d = %q, want prefix %q and suffix %q",
				i, lines[i], check.prefix, check.suffix)
		}
	}
}

func TestWorkspace_WriteFiles(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("NewWorkspace() error: %v", err)
	}
	defer ws.Close()

	if err := ws.WriteExtracted("ыт балык\n"); err != nil {
		t.Fatalf("WriteExtracted() error: %v", err)
	}
	if err := ws.WriteCleaned("балык\n"); err != nil {
		t.Fatalf("WriteCleaned() error: %v", err)
	}

	if got := readWorkspaceFile(t, ws, extractedFileName); got != "ыт балык\n" {
		t.Errorf("extracted.txt = %q", got)
	}
	if got := readWorkspaceFile(t, ws, cleanedFileName); got != "балык\n" {
		t.Errorf("cleaned.txt = %q", got)
	}
}

func TestArchiveFile(t *testing.T) {
	srcDir := t.TempDir()
	path := filepath.Join(srcDir, "book.pdf")
	if err := os.WriteFile(path, []byte("pdf bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	archiveDir := filepath.Join(t.TempDir(), "processed")
	if err := ArchiveFile(path, archiveDir); err != nil {
		t.Fatalf("ArchiveFile() error: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("source file still present after archive")
	}
	data, err := os.ReadFile(filepath.Join(archiveDir, "book.pdf"))
	if err != nil {
		t.Fatalf("archived file missing: %v", err)
	}
	if string(data) != "pdf bytes" {
		t.Errorf("archived content = %q", data)
	}
}
