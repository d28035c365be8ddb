package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/antflydb/corpusaf/extract"
)

const (
	// Run directories are named by their start time, down to the second.
	runDirTimeFormat = "02-01-06-15-04-05"
	logTimeFormat    = "2006-01-02 15:04:05"

	extractedFileName = "extracted.txt"
	cleanedFileName   = "cleaned.txt"
	logFileName       = "extraction.log"
	reportFileName    = "report.json"
)

// Workspace is the per-run results directory. It holds the combined
// extracted text, the cleaned text, the extraction log and the JSON report.
type Workspace struct {
	// Dir is the timestamped run directory.
	Dir string

	logFile *os.File
}

// NewWorkspace creates a timestamped run directory under root and opens
// the extraction log inside it.
func NewWorkspace(root string) (*Workspace, error) {
	dir := filepath.Join(root, time.Now().Format(runDirTimeFormat))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	logFile, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open extraction log: %w", err)
	}

	return &Workspace{Dir: dir, logFile: logFile}, nil
}

// Close closes the extraction log.
func (w *Workspace) Close() error {
	return w.logFile.Close()
}

// WriteExtracted writes the combined raw text of the run.
func (w *Workspace) WriteExtracted(text string) error {
	return w.writeFile(extractedFileName, text)
}

// WriteCleaned writes the combined cleaned text of the run.
func (w *Workspace) WriteCleaned(text string) error {
	return w.writeFile(cleanedFileName, text)
}

// WriteReport writes the JSON report of the run.
func (w *Workspace) WriteReport(report *Report) error {
	return report.Save(filepath.Join(w.Dir, reportFileName))
}

func (w *Workspace) writeFile(name, text string) error {
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// LogExtraction appends one log line for a successfully extracted document.
// PDF documents report pages, parquet datasets report rows.
func (w *Workspace) LogExtraction(doc extract.Document) error {
	line := fmt.Sprintf("%s - %s - %d chars - %d bytes",
		doc.Name, time.Now().Format(logTimeFormat), doc.Chars(), doc.Size)
	if doc.Pages > 0 {
		unit := "pages"
		if doc.Format == extract.FormatParquet {
			unit = "rows"
		}
		line += fmt.Sprintf(" - %d %s", doc.Pages, unit)
	}
	return w.appendLog(line)
}

// LogError appends one ERROR log line for a failed document.
func (w *Workspace) LogError(name, message string) error {
	return w.appendLog(fmt.Sprintf("%s - %s - ERROR: %s",
		name, time.Now().Format(logTimeFormat), message))
}

func (w *Workspace) appendLog(line string) error {
	if _, err := fmt.Fprintln(w.logFile, line); err != nil {
		return fmt.Errorf("failed to append to extraction log: %w", err)
	}
	return nil
}

// ArchiveFile moves a processed input file into archiveDir, creating the
// directory if needed.
func ArchiveFile(path, archiveDir string) error {
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}
	target := filepath.Join(archiveDir, filepath.Base(path))
	if err := os.Rename(path, target); err != nil {
		return fmt.Errorf("failed to archive %s: %w", path, err)
	}
	return nil
}
