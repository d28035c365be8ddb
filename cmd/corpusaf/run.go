package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/antflydb/corpusaf/corpus"
	"github.com/antflydb/corpusaf/extract"
	"github.com/antflydb/corpusaf/logging"
)

var (
	configPath string
	inputDir   string
	resultsDir string
	archiveDir string
	sequential bool
	noProgress bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full extract-and-clean pipeline",
	Long: `Run the full pipeline: traverse the configured sources, extract text,
clean it, and write a timestamped results directory.

Examples:
  # Run with config file
  corpusaf run --config corpusaf.yaml

  # Run over a directory with default settings
  corpusaf run --input ./books --results ./results

  # Archive processed files and run sequentially
  corpusaf run --input ./books --archive ./processed --sequential
`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	runCmd.Flags().StringVarP(&inputDir, "input", "i", "", "Input directory (overrides config)")
	runCmd.Flags().StringVarP(&resultsDir, "results", "o", "", "Results directory (overrides config)")
	runCmd.Flags().StringVar(&archiveDir, "archive", "", "Move processed files into this directory (overrides config)")
	runCmd.Flags().BoolVar(&sequential, "sequential", false, "Process documents one at a time")
	runCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress line")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	return executePipeline(pipelineOptions{
		configPath: configPath,
		inputDir:   inputDir,
		resultsDir: resultsDir,
		archiveDir: archiveDir,
		sequential: sequential,
		noProgress: noProgress,
	})
}

// pipelineOptions carries the flag overrides shared by run and extract.
type pipelineOptions struct {
	configPath  string
	inputDir    string
	resultsDir  string
	archiveDir  string
	sequential  bool
	noProgress  bool
	extractOnly bool
}

func executePipeline(opts pipelineOptions) error {
	config, err := loadPipelineConfig(opts)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(&config.Logging)

	sources, err := buildSources(config, logger)
	if err != nil {
		return err
	}

	runner, err := corpus.NewRunner(*config, logger)
	if err != nil {
		return err
	}
	if !opts.noProgress && isTerminal(os.Stderr) {
		runner.ProgressOut = os.Stderr
	}

	ws, err := corpus.NewWorkspace(config.Output.ResultsDir)
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := context.Background()
	var report *corpus.Report
	if opts.extractOnly {
		report, err = runner.Extract(ctx, sources, ws)
	} else {
		report, err = runner.Run(ctx, sources, ws)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	report.Print()
	fmt.Printf("\nResults written to: %s\n", ws.Dir)
	return nil
}

func loadPipelineConfig(opts pipelineOptions) (*corpus.Config, error) {
	var config *corpus.Config
	if opts.configPath != "" {
		loaded, err := corpus.LoadConfig(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		config = loaded
	} else {
		def := corpus.DefaultConfig()
		config = &def
	}

	if opts.inputDir != "" {
		config.Input.Dir = opts.inputDir
	}
	if opts.resultsDir != "" {
		config.Output.ResultsDir = opts.resultsDir
	}
	if opts.archiveDir != "" {
		config.Output.ArchiveDir = opts.archiveDir
	}
	if opts.sequential {
		config.Execution.Parallel = false
	}
	return config, nil
}

// buildExtractors wires the configured parquet text column into the
// default extractor set.
func buildExtractors(config *corpus.Config) []extract.Extractor {
	return []extract.Extractor{
		&extract.PDFExtractor{},
		&extract.ParquetExtractor{TextColumn: config.Input.ParquetColumn},
		&extract.MarkdownExtractor{},
		&extract.HTMLExtractor{},
		&extract.TextExtractor{},
	}
}

func buildSources(config *corpus.Config, logger *zap.Logger) ([]extract.Source, error) {
	extractors := buildExtractors(config)

	var sources []extract.Source
	if config.Input.Dir != "" {
		sources = append(sources, extract.NewFilesystemSource(extract.FilesystemSourceConfig{
			Dir:             config.Input.Dir,
			IncludePatterns: config.Input.IncludePatterns,
			ExcludePatterns: config.Input.ExcludePatterns,
		}, extractors, logger))
	}
	if config.Input.S3 != nil {
		sources = append(sources, extract.NewS3Source(*config.Input.S3, extractors, logger))
	}
	if config.Input.Web != nil {
		webSource, err := extract.NewWebSource(*config.Input.Web, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create web source: %w", err)
		}
		sources = append(sources, webSource)
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no input sources configured")
	}
	return sources, nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
