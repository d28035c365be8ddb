package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/antflydb/corpusaf/corpus"
	"github.com/antflydb/corpusaf/logging"
	"github.com/antflydb/corpusaf/sakha"
)

var (
	cleanConfigPath string
	cleanShowStats  bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean [files...]",
	Short: "Clean existing text files or stdin",
	Long: `Clean previously extracted text without re-running extraction.

Each file argument is cleaned into a sibling <name>.cleaned<ext> file.
Without arguments, text is read from stdin and written to stdout.

Examples:
  corpusaf clean extracted.txt
  corpusaf clean --stats book1.txt book2.txt
  corpusaf clean < raw.txt > cleaned.txt
`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVarP(&cleanConfigPath, "config", "c", "", "Path to configuration file")
	cleanCmd.Flags().BoolVar(&cleanShowStats, "stats", false, "Print word statistics for each input")
}

func runClean(cmd *cobra.Command, args []string) error {
	var config *corpus.Config
	if cleanConfigPath != "" {
		loaded, err := corpus.LoadConfig(cleanConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		config = loaded
	} else {
		def := corpus.DefaultConfig()
		config = &def
	}

	logger := logging.NewLogger(&config.Logging)
	cleaner, err := sakha.NewCleaner(config.Cleaning, logger)
	if err != nil {
		return fmt.Errorf("failed to build cleaner: %w", err)
	}

	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		cleaned, stats := cleaner.CleanTextStats(string(data))
		fmt.Println(cleaned)
		if cleanShowStats {
			printCleanStats(os.Stderr, "stdin", stats)
		}
		return nil
	}

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		cleaned, stats := cleaner.CleanTextStats(string(data))

		outPath := cleanedPath(path)
		if err := os.WriteFile(outPath, []byte(cleaned+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		if cleanShowStats {
			printCleanStats(os.Stderr, path, stats)
		}
		fmt.Printf("%s -> %s\n", path, outPath)
	}
	return nil
}

// cleanedPath inserts .cleaned before the file extension.
func cleanedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".cleaned" + ext
}

func printCleanStats(w io.Writer, name string, stats sakha.Stats) {
	fmt.Fprintf(w, "%s: %d words, %d kept, %d deleted\n",
		name, stats.WordsTotal, stats.WordsKept, stats.WordsDeleted)
}
