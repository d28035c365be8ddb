package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/antflydb/corpusaf/extract"
)

// fakeSource yields a fixed document list, then optionally fails.
type fakeSource struct {
	docs []extract.Document
	err  error
}

func (f *fakeSource) Type() string { return "fake" }

func (f *fakeSource) Traverse(ctx context.Context) (<-chan extract.Document, <-chan error) {
	docs := make(chan extract.Document)
	errs := make(chan error, 1)
	go func() {
		defer close(docs)
		defer close(errs)
		for _, doc := range f.docs {
			docs <- doc
		}
		if f.err != nil {
			errs <- f.err
		}
	}()
	return docs, errs
}

var runFixtures = []extract.Document{
	{
		Name:   "a.txt",
		Path:   "a.txt",
		Format: extract.FormatText,
		Text:   "оҕолор уонна кинигэлэр",
		Size:   42,
	},
	{
		Name:   "b.txt",
		Path:   "b.txt",
		Format: extract.FormatText,
		Text:   "привет хорошо щука",
		Size:   34,
	},
}

func TestRunner_Run(t *testing.T) {
	config := DefaultConfig()
	config.Execution.Parallel = false
	config.Output.ResultsDir = t.TempDir()

	runner, err := NewRunner(config, nil)
	if err != nil {
		t.Fatalf("NewRunner() error: %v", err)
	}
	ws, err := NewWorkspace(config.Output.ResultsDir)
	if err != nil {
		t.Fatalf("NewWorkspace() error: %v", err)
	}
	defer ws.Close()

	source := &fakeSource{docs: runFixtures}
	report, err := runner.Run(context.Background(), []extract.Source{source}, ws)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	summary := report.Summary
	if summary.TotalDocuments != 2 {
		t.Errorf("TotalDocuments = %d, want 2", summary.TotalDocuments)
	}
	if summary.FailedDocuments != 0 {
		t.Errorf("FailedDocuments = %d, want 0", summary.FailedDocuments)
	}
	if summary.TotalChars != 40 {
		t.Errorf("TotalChars = %d, want 40", summary.TotalChars)
	}
	if summary.CleanedChars != 22 {
		t.Errorf("CleanedChars = %d, want 22", summary.CleanedChars)
	}
	if summary.WordsTotal != 6 || summary.WordsKept != 3 || summary.WordsDeleted != 3 {
		t.Errorf("words = %d/%d/%d, want 6/3/3",
			summary.WordsTotal, summary.WordsKept, summary.WordsDeleted)
	}

	if got := report.Results[0]; got.Source != "fake" || got.Words.WordsKept != 3 {
		t.Errorf("Results[0] = %+v, want source fake with 3 kept words", got)
	}

	extracted := readWorkspaceFile(t, ws, extractedFileName)
	if want := "оҕолор уонна кинигэлэр\nпривет хорошо щука\n"; extracted != want {
		t.Errorf("extracted.txt = %q, want %q", extracted, want)
	}
	cleaned := readWorkspaceFile(t, ws, cleanedFileName)
	if want := "оҕолор уонна кинигэлэр\n\n"; cleaned != want {
		t.Errorf("cleaned.txt = %q, want %q", cleaned, want)
	}

	logLines := strings.Split(strings.TrimSpace(readWorkspaceFile(t, ws, logFileName)), "\n")
	if len(logLines) != 2 {
		t.Fatalf("extraction.log has %d lines, want 2: %q", len(logLines), logLines)
	}
	if !strings.HasPrefix(logLines[0], "a.txt - ") || !strings.HasSuffix(logLines[0], " - 22 chars - 42 bytes") {
		t.Errorf("log line = %q, want a.txt with 22 chars and 42 bytes", logLines[0])
	}
	if !strings.HasSuffix(logLines[1], " - 18 chars - 34 bytes") {
		t.Errorf("log line = %q, want 18 chars and 34 bytes", logLines[1])
	}

	var saved Report
	if err := sonic.Unmarshal([]byte(readWorkspaceFile(t, ws, reportFileName)), &saved); err != nil {
		t.Fatalf("report.json did not parse: %v", err)
	}
	if saved.Summary.TotalDocuments != 2 {
		t.Errorf("saved TotalDocuments = %d, want 2", saved.Summary.TotalDocuments)
	}
}

func TestRunner_Run_Parallel(t *testing.T) {
	config := DefaultConfig()
	config.Execution.Parallel = true
	config.Execution.MaxConcurrency = 3

	runner, err := NewRunner(config, nil)
	if err != nil {
		t.Fatalf("NewRunner() error: %v", err)
	}

	var docs []extract.Document
	for i := 0; i < 12; i++ {
		docs = append(docs, extract.Document{
			Name:   fmt.Sprintf("doc%02d.txt", i),
			Path:   fmt.Sprintf("doc%02d.txt", i),
			Format: extract.FormatText,
			Text:   "оҕо",
		})
	}

	report, err := runner.Run(context.Background(), []extract.Source{&fakeSource{docs: docs}}, nil)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.Summary.WordsKept != 12 {
		t.Errorf("WordsKept = %d, want 12", report.Summary.WordsKept)
	}
	for i, result := range report.Results {
		if want := fmt.Sprintf("doc%02d.txt", i); result.Name != want {
			t.Fatalf("Results[%d].Name = %q, want %q (order not preserved)", i, result.Name, want)
		}
	}
}

func TestRunner_Run_SourceError(t *testing.T) {
	runner, err := NewRunner(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewRunner() error: %v", err)
	}

	source := &fakeSource{err: errors.New("bucket gone")}
	if _, err := runner.Run(context.Background(), []extract.Source{source}, nil); err == nil {
		t.Fatal("Run() expected error from failing source")
	} else if !strings.Contains(err.Error(), "fake source failed") {
		t.Errorf("Run() error = %v, want it to name the source", err)
	}
}

func TestRunner_Run_CancelledContext(t *testing.T) {
	runner, err := NewRunner(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewRunner() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := runner.Run(ctx, []extract.Source{&fakeSource{docs: runFixtures}}, nil)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if report.Summary.FailedDocuments != 2 {
		t.Errorf("FailedDocuments = %d, want 2", report.Summary.FailedDocuments)
	}
	if report.Results[0].Error == "" {
		t.Error("Results[0].Error empty, want context error recorded")
	}
}

func TestRunner_Extract(t *testing.T) {
	config := DefaultConfig()
	config.Output.ResultsDir = t.TempDir()

	runner, err := NewRunner(config, nil)
	if err != nil {
		t.Fatalf("NewRunner() error: %v", err)
	}
	ws, err := NewWorkspace(config.Output.ResultsDir)
	if err != nil {
		t.Fatalf("NewWorkspace() error: %v", err)
	}
	defer ws.Close()

	report, err := runner.Extract(context.Background(), []extract.Source{&fakeSource{docs: runFixtures}}, ws)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	if report.Summary.WordsTotal != 0 {
		t.Errorf("WordsTotal = %d, want 0 for extraction-only run", report.Summary.WordsTotal)
	}
	if report.Results[0].Chars != 22 {
		t.Errorf("Results[0].Chars = %d, want 22", report.Results[0].Chars)
	}

	extracted := readWorkspaceFile(t, ws, extractedFileName)
	if want := "оҕолор уонна кинигэлэр\nпривет хорошо щука\n"; extracted != want {
		t.Errorf("extracted.txt = %q, want %q", extracted, want)
	}
	if _, err := os.Stat(filepath.Join(ws.Dir, cleanedFileName)); !os.IsNotExist(err) {
		t.Error("cleaned.txt exists after extraction-only run")
	}
}

func TestRunner_Run_ArchivesLocalFiles(t *testing.T) {
	inputDir := t.TempDir()
	inputPath := filepath.Join(inputDir, "a.txt")
	if err := os.WriteFile(inputPath, []byte("оҕо"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	config := DefaultConfig()
	config.Output.ArchiveDir = filepath.Join(t.TempDir(), "archive")

	runner, err := NewRunner(config, nil)
	if err != nil {
		t.Fatalf("NewRunner() error: %v", err)
	}

	doc := extract.Document{
		Name:     "a.txt",
		Path:     "a.txt",
		Format:   extract.FormatText,
		Text:     "оҕо",
		Metadata: map[string]any{"abs_path": inputPath},
	}
	if _, err := runner.Run(context.Background(), []extract.Source{&fakeSource{docs: []extract.Document{doc}}}, nil); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if _, err := os.Stat(inputPath); !os.IsNotExist(err) {
		t.Error("input file still present, want it moved to archive")
	}
	if _, err := os.Stat(filepath.Join(config.Output.ArchiveDir, "a.txt")); err != nil {
		t.Errorf("archived file missing: %v", err)
	}
}

func readWorkspaceFile(t *testing.T, ws *Workspace, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(ws.Dir, name))
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", name, err)
	}
	return string(data)
}
