package corpus

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"github.com/antflydb/corpusaf/extract"
	"github.com/antflydb/corpusaf/sakha"
)

// DocumentResult records what the pipeline did to one document.
type DocumentResult struct {
	Name   string         `json:"name"`
	Path   string         `json:"path"`
	Source string         `json:"source"`
	Format extract.Format `json:"format"`

	// Pages counts PDF pages or parquet rows.
	Pages int   `json:"pages,omitempty"`
	Bytes int64 `json:"bytes"`

	// Chars and CleanedChars count runes before and after cleaning.
	Chars        int `json:"chars"`
	CleanedChars int `json:"cleaned_chars"`

	Words   sakha.Stats     `json:"words"`
	Quality extract.Quality `json:"quality"`
	Garbled bool            `json:"garbled,omitempty"`

	DurationMS int64 `json:"duration_ms"`

	// Error is set when the document was not processed.
	Error string `json:"error,omitempty"`
}

// Summary holds aggregate statistics for a run.
type Summary struct {
	TotalDocuments   int `json:"total_documents"`
	FailedDocuments  int `json:"failed_documents"`
	GarbledDocuments int `json:"garbled_documents"`

	TotalChars   int `json:"total_chars"`
	CleanedChars int `json:"cleaned_chars"`

	WordsTotal   int `json:"words_total"`
	WordsKept    int `json:"words_kept"`
	WordsDeleted int `json:"words_deleted"`

	TotalDuration time.Duration `json:"total_duration"`
}

// Report is the full result of one pipeline run.
type Report struct {
	StartedAt time.Time        `json:"started_at"`
	Summary   Summary          `json:"summary"`
	Results   []DocumentResult `json:"results"`
}

// Print prints the report to stdout in a human-readable format.
func (r *Report) Print() {
	r.PrintTo(os.Stdout)
}

// PrintTo prints the report to the specified writer.
func (r *Report) PrintTo(w io.Writer) {
	fmt.Fprintf(w, "Corpus Report\n")
	fmt.Fprintf(w, "=============\n\n")

	fmt.Fprintf(w, "Started: %s\n", r.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n\n", r.Summary.TotalDuration)

	fmt.Fprintf(w, "Summary\n")
	fmt.Fprintf(w, "-------\n")
	fmt.Fprintf(w, "Documents: %d\n", r.Summary.TotalDocuments)
	if r.Summary.FailedDocuments > 0 {
		fmt.Fprintf(w, "Failed: %d\n", r.Summary.FailedDocuments)
	}
	if r.Summary.GarbledDocuments > 0 {
		fmt.Fprintf(w, "Garbled: %d\n", r.Summary.GarbledDocuments)
	}
	fmt.Fprintf(w, "Extracted: %d chars\n", r.Summary.TotalChars)
	fmt.Fprintf(w, "Cleaned: %d chars\n", r.Summary.CleanedChars)

	var deletedRate float64
	if r.Summary.WordsTotal > 0 {
		deletedRate = float64(r.Summary.WordsDeleted) / float64(r.Summary.WordsTotal) * 100
	}
	fmt.Fprintf(w, "Words: %d total, %d kept, %d deleted (%.1f%%)\n\n",
		r.Summary.WordsTotal, r.Summary.WordsKept, r.Summary.WordsDeleted, deletedRate)

	garbledCount := 0
	for _, result := range r.Results {
		if result.Error != "" || !result.Garbled {
			continue
		}
		if garbledCount == 0 {
			fmt.Fprintf(w, "Garbled Documents\n")
			fmt.Fprintf(w, "-----------------\n")
		}
		garbledCount++
		fmt.Fprintf(w, "  %s: %.0f%% single-char words, %.1f%% replacement chars\n",
			result.Path, result.Quality.SingleCharRatio*100, result.Quality.ReplacementRatio*100)
	}
	if garbledCount > 0 {
		fmt.Fprintf(w, "\n")
	}

	failedCount := 0
	for _, result := range r.Results {
		if result.Error == "" {
			continue
		}
		if failedCount == 0 {
			fmt.Fprintf(w, "Failed Documents\n")
			fmt.Fprintf(w, "----------------\n")
		}
		failedCount++
		fmt.Fprintf(w, "  %s: %s\n", result.Path, result.Error)
	}
	if failedCount == 0 {
		fmt.Fprintf(w, "All documents processed.\n")
	}
}

// ToJSON converts the report to JSON.
func (r *Report) ToJSON(pretty bool) ([]byte, error) {
	if pretty {
		return sonic.MarshalIndent(r, "", "  ")
	}
	return sonic.Marshal(r)
}

// Save writes the report as pretty-printed JSON to path.
func (r *Report) Save(path string) error {
	data, err := r.ToJSON(true)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// calculateSummary calculates aggregate statistics.
func calculateSummary(results []DocumentResult, totalDuration time.Duration) Summary {
	summary := Summary{
		TotalDocuments: len(results),
		TotalDuration:  totalDuration,
	}

	for _, result := range results {
		if result.Error != "" {
			summary.FailedDocuments++
			continue
		}
		if result.Garbled {
			summary.GarbledDocuments++
		}
		summary.TotalChars += result.Chars
		summary.CleanedChars += result.CleanedChars
		summary.WordsTotal += result.Words.WordsTotal
		summary.WordsKept += result.Words.WordsKept
		summary.WordsDeleted += result.Words.WordsDeleted
	}

	return summary
}
