// Package corpus orchestrates the pipeline: extract text from configured
// sources, clean it, and write the results workspace.
package corpus

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/antflydb/corpusaf/extract"
	"github.com/antflydb/corpusaf/logging"
	"github.com/antflydb/corpusaf/sakha"
)

// Config represents the pipeline configuration.
type Config struct {
	// Input configures where documents come from
	Input InputConfig `yaml:"input" json:"input"`

	// Cleaning configures the healer and classifier
	Cleaning sakha.Config `yaml:"cleaning" json:"cleaning"`

	// Execution configures execution behavior
	Execution ExecutionConfig `yaml:"execution" json:"execution"`

	// Output configures the results workspace
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configures log style and level
	Logging logging.Config `yaml:"logging" json:"logging"`
}

// InputConfig configures document sources. Dir, S3 and Web can be combined;
// every configured source contributes documents to the same run.
type InputConfig struct {
	// Dir is a local directory to walk for documents
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`

	// IncludePatterns limits the walk to matching relative paths (doublestar globs)
	IncludePatterns []string `yaml:"include_patterns,omitempty" json:"include_patterns,omitempty"`

	// ExcludePatterns skips matching relative paths
	ExcludePatterns []string `yaml:"exclude_patterns,omitempty" json:"exclude_patterns,omitempty"`

	// ParquetColumn names the text column of parquet datasets. Empty reads
	// every string column.
	ParquetColumn string `yaml:"parquet_column,omitempty" json:"parquet_column,omitempty"`

	// S3 configures an object storage source
	S3 *extract.S3SourceConfig `yaml:"s3,omitempty" json:"s3,omitempty"`

	// Web configures a crawler source
	Web *extract.WebSourceConfig `yaml:"web,omitempty" json:"web,omitempty"`
}

// ExecutionConfig configures execution behavior.
type ExecutionConfig struct {
	// Parallel enables parallel cleaning of documents
	Parallel bool `yaml:"parallel" json:"parallel"`

	// MaxConcurrency limits the number of concurrently cleaned documents
	MaxConcurrency int `yaml:"max_concurrency" json:"max_concurrency"`
}

// OutputConfig configures the results workspace.
type OutputConfig struct {
	// ResultsDir is the directory under which each run creates its
	// timestamped workspace
	ResultsDir string `yaml:"results_dir" json:"results_dir"`

	// ArchiveDir, when set, receives successfully processed local files
	ArchiveDir string `yaml:"archive_dir,omitempty" json:"archive_dir,omitempty"`

	// KeepExtracted also writes the raw extracted text next to the cleaned text
	KeepExtracted bool `yaml:"keep_extracted" json:"keep_extracted"`
}

// DefaultConfig returns the configuration used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Input:    InputConfig{Dir: "data"},
		Cleaning: sakha.DefaultConfig(),
		Execution: ExecutionConfig{
			Parallel:       true,
			MaxConcurrency: 4,
		},
		Output: OutputConfig{
			ResultsDir:    "results",
			KeepExtracted: true,
		},
		Logging: logging.Config{
			Style: logging.StyleTerminal,
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file. Fields absent from the
// file keep their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports configuration errors.
func (c *Config) Validate() error {
	if c.Input.Dir == "" && c.Input.S3 == nil && c.Input.Web == nil {
		return fmt.Errorf("no input source configured: set input.dir, input.s3 or input.web")
	}
	if err := c.Cleaning.Validate(); err != nil {
		return fmt.Errorf("invalid cleaning config: %w", err)
	}
	return nil
}
