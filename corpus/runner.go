package corpus

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/antflydb/corpusaf/extract"
	"github.com/antflydb/corpusaf/sakha"
)

// Runner orchestrates the pipeline: traverse the sources, clean every
// document, and write the results workspace.
type Runner struct {
	// ProgressOut, when set, receives an in-place progress line during
	// processing. Leave nil when the output is not a terminal.
	ProgressOut io.Writer

	config  Config
	cleaner *sakha.Cleaner
	logger  *zap.Logger
}

// sourcedDocument pairs a document with the type of the source that
// produced it.
type sourcedDocument struct {
	source string
	doc    extract.Document
}

// NewRunner builds the cleaner from the configuration and creates a runner.
func NewRunner(config Config, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cleaner, err := sakha.NewCleaner(config.Cleaning, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build cleaner: %w", err)
	}
	return &Runner{
		config:  config,
		cleaner: cleaner,
		logger:  logger,
	}, nil
}

// Run executes the full pipeline over every source and returns the report.
// A nil workspace skips all file output. Per-document failures are recorded
// in the report and never abort the run; only a failed source traversal does.
func (r *Runner) Run(ctx context.Context, sources []extract.Source, ws *Workspace) (*Report, error) {
	startTime := time.Now()

	documents, err := r.collect(ctx, sources)
	if err != nil {
		return nil, err
	}

	var progress *Progress
	if r.ProgressOut != nil {
		progress = NewProgress("Cleaning", len(documents), r.ProgressOut)
	}

	var results []DocumentResult
	var cleaned []string
	if r.config.Execution.Parallel {
		results, cleaned = r.runParallel(ctx, documents, progress)
	} else {
		results, cleaned = r.runSequential(ctx, documents, progress)
	}
	if progress != nil {
		progress.Finish()
	}

	if ws != nil {
		if err := r.writeOutputs(ws, documents, results, cleaned, r.config.Output.KeepExtracted); err != nil {
			return nil, err
		}
	}
	r.archive(documents, results)

	report := &Report{
		StartedAt: startTime,
		Summary:   calculateSummary(results, time.Since(startTime)),
		Results:   results,
	}
	if ws != nil {
		if err := ws.WriteReport(report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// Extract runs ingestion only: sources are traversed and the raw extracted
// text is written, but nothing is cleaned.
func (r *Runner) Extract(ctx context.Context, sources []extract.Source, ws *Workspace) (*Report, error) {
	startTime := time.Now()

	documents, err := r.collect(ctx, sources)
	if err != nil {
		return nil, err
	}

	results := make([]DocumentResult, len(documents))
	for i, sd := range documents {
		results[i] = r.describe(sd)
	}

	if ws != nil {
		if err := r.writeOutputs(ws, documents, results, nil, true); err != nil {
			return nil, err
		}
	}
	r.archive(documents, results)

	report := &Report{
		StartedAt: startTime,
		Summary:   calculateSummary(results, time.Since(startTime)),
		Results:   results,
	}
	if ws != nil {
		if err := ws.WriteReport(report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// collect drains every source before processing starts, so that document
// counts are known up front.
func (r *Runner) collect(ctx context.Context, sources []extract.Source) ([]sourcedDocument, error) {
	var documents []sourcedDocument
	for _, source := range sources {
		before := len(documents)

		docs, errs := source.Traverse(ctx)
		for doc := range docs {
			documents = append(documents, sourcedDocument{source: source.Type(), doc: doc})
		}
		if err := <-errs; err != nil {
			return nil, fmt.Errorf("%s source failed: %w", source.Type(), err)
		}

		r.logger.Info("source traversed",
			zap.String("source", source.Type()),
			zap.Int("documents", len(documents)-before))
	}
	return documents, nil
}

// runSequential cleans documents one at a time.
func (r *Runner) runSequential(ctx context.Context, documents []sourcedDocument, progress *Progress) ([]DocumentResult, []string) {
	results := make([]DocumentResult, len(documents))
	cleaned := make([]string, len(documents))

	for i, sd := range documents {
		results[i], cleaned[i] = r.processOne(ctx, sd)
		if progress != nil {
			progress.Increment()
		}
	}

	return results, cleaned
}

// runParallel cleans documents in parallel.
func (r *Runner) runParallel(ctx context.Context, documents []sourcedDocument, progress *Progress) ([]DocumentResult, []string) {
	results := make([]DocumentResult, len(documents))
	cleaned := make([]string, len(documents))

	maxConcurrency := r.config.Execution.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}
	sem := make(chan struct{}, maxConcurrency)

	var wg sync.WaitGroup
	var mu sync.Mutex

	for i, sd := range documents {
		wg.Add(1)
		go func(idx int, sd sourcedDocument) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			result, text := r.processOne(ctx, sd)
			mu.Lock()
			results[idx] = result
			cleaned[idx] = text
			mu.Unlock()

			if progress != nil {
				progress.Increment()
			}
		}(i, sd)
	}
	wg.Wait()

	return results, cleaned
}

// processOne cleans a single document. A cancelled context records the
// document as failed instead of aborting the run.
func (r *Runner) processOne(ctx context.Context, sd sourcedDocument) (DocumentResult, string) {
	select {
	case <-ctx.Done():
		return DocumentResult{
			Name:   sd.doc.Name,
			Path:   sd.doc.Path,
			Source: sd.source,
			Format: sd.doc.Format,
			Error:  ctx.Err().Error(),
		}, ""
	default:
	}

	start := time.Now()
	result := r.describe(sd)

	cleanedText, stats := r.cleaner.CleanTextStats(sd.doc.Text)
	result.CleanedChars = utf8.RuneCountInString(cleanedText)
	result.Words = stats
	result.DurationMS = time.Since(start).Milliseconds()

	return result, cleanedText
}

// describe fills the extraction-side fields of a result.
func (r *Runner) describe(sd sourcedDocument) DocumentResult {
	doc := sd.doc
	quality := extract.AssessQuality(doc.Text)
	return DocumentResult{
		Name:    doc.Name,
		Path:    doc.Path,
		Source:  sd.source,
		Format:  doc.Format,
		Pages:   doc.Pages,
		Bytes:   doc.Size,
		Chars:   doc.Chars(),
		Quality: quality,
		Garbled: quality.Garbled(),
	}
}

// writeOutputs appends the extraction log and writes the combined text
// files. A nil cleaned slice skips the cleaned output.
func (r *Runner) writeOutputs(ws *Workspace, documents []sourcedDocument, results []DocumentResult, cleaned []string, keepExtracted bool) error {
	var rawParts, cleanedParts []string
	for i, result := range results {
		if result.Error != "" {
			if err := ws.LogError(result.Name, result.Error); err != nil {
				return err
			}
			continue
		}
		if err := ws.LogExtraction(documents[i].doc); err != nil {
			return err
		}
		rawParts = append(rawParts, documents[i].doc.Text)
		if cleaned != nil {
			cleanedParts = append(cleanedParts, cleaned[i])
		}
	}

	if keepExtracted {
		if err := ws.WriteExtracted(joinParts(rawParts)); err != nil {
			return err
		}
	}
	if cleaned != nil {
		if err := ws.WriteCleaned(joinParts(cleanedParts)); err != nil {
			return err
		}
	}
	return nil
}

// archive moves successfully processed local files into the archive
// directory. Only documents with a local path can be archived.
func (r *Runner) archive(documents []sourcedDocument, results []DocumentResult) {
	if r.config.Output.ArchiveDir == "" {
		return
	}
	for i, result := range results {
		if result.Error != "" {
			continue
		}
		absPath, ok := documents[i].doc.Metadata["abs_path"].(string)
		if !ok {
			continue
		}
		if err := ArchiveFile(absPath, r.config.Output.ArchiveDir); err != nil {
			r.logger.Warn("failed to archive input file",
				zap.String("path", absPath), zap.Error(err))
		}
	}
}

func joinParts(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n") + "\n"
}
