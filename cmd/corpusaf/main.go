package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "corpusaf",
	Short: "Corpusaf - Sakha OCR corpus extraction and cleaning",
	Long: `Corpusaf builds clean Sakha (Yakut) language corpora from OCR output.

It supports:
- Extracting text from PDF scans, parquet datasets, HTML, Markdown and plain text
- Healing OCR damage (shattered words, misread letters, soft hyphens)
- Removing interleaved Russian words while keeping the native Sakha text

Use corpusaf to run the full pipeline, extract raw text, or clean existing files.`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(cleanCmd)
}
