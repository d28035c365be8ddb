package main

import (
	"github.com/spf13/cobra"
)

var (
	extractConfigPath string
	extractInputDir   string
	extractResultsDir string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract raw text without cleaning it",
	Long: `Extract text from the configured sources into a results directory,
skipping the cleaning stage. Useful for inspecting what OCR extraction
produces before tuning the cleaner.

Examples:
  corpusaf extract --input ./scans --results ./results
  corpusaf extract --config corpusaf.yaml
`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractConfigPath, "config", "c", "", "Path to configuration file")
	extractCmd.Flags().StringVarP(&extractInputDir, "input", "i", "", "Input directory (overrides config)")
	extractCmd.Flags().StringVarP(&extractResultsDir, "results", "o", "", "Results directory (overrides config)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	return executePipeline(pipelineOptions{
		configPath:  extractConfigPath,
		inputDir:    extractInputDir,
		resultsDir:  extractResultsDir,
		extractOnly: true,
	})
}
