// Package sakha cleans OCR-extracted Sakha (Yakut) text. It heals the
// damage scanners inflict on the script, then separates native words from
// the Russian text OCR tends to interleave with them.
//
// The two halves are usable on their own: Healer repairs text without
// judging it, Classifier judges words without altering them. Cleaner wires
// both behind one configuration.
package sakha

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Cleaner runs the full pipeline: heal the raw OCR text, tokenize it, and
// drop every word the classifier rejects. A Cleaner is safe for concurrent
// use once built.
type Cleaner struct {
	cfg        Config
	healer     *Healer
	classifier *Classifier
	logger     *zap.Logger

	// wordRE matches a word along with any fragments glued to it by
	// hyphens, dashes, underscores or line breaks.
	wordRE      *regexp.Regexp
	sepReplacer *strings.Replacer
}

// Stats counts what one CleanText call did.
type Stats struct {
	WordsTotal   int `json:"words_total"`
	WordsKept    int `json:"words_kept"`
	WordsDeleted int `json:"words_deleted"`
}

// NewCleaner validates cfg, loads the exception file if one is configured,
// and builds the healer and the classifier over a shared exception list.
func NewCleaner(cfg Config, logger *zap.Logger) (*Cleaner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	exceptions := LoadExceptions(cfg.ExceptionsFile, logger)

	return &Cleaner{
		cfg:         cfg,
		healer:      NewHealer(cfg, exceptions, logger),
		classifier:  NewClassifier(cfg, exceptions, logger),
		logger:      logger,
		wordRE:      regexp.MustCompile(`[\p{L}]+(?:[-–_\n][\p{L}]+)*`),
		sepReplacer: strings.NewReplacer("-", " ", "–", " ", "_", " ", "\n", " "),
	}, nil
}

// Healer exposes the healing half of the pipeline.
func (c *Cleaner) Healer() *Healer {
	return c.healer
}

// Classifier exposes the classification half of the pipeline.
func (c *Cleaner) Classifier() *Classifier {
	return c.classifier
}

// HealText repairs OCR damage without removing any words.
func (c *Cleaner) HealText(text string) string {
	return c.healer.HealText(text)
}

// CleanText heals text and removes every word classified for deletion.
// Separators inside kept multi-fragment tokens become spaces, and the
// result is collapsed to single-space form.
func (c *Cleaner) CleanText(text string) string {
	cleaned, _ := c.CleanTextStats(text)
	return cleaned
}

// CleanTextStats is CleanText with word counts for reporting.
func (c *Cleaner) CleanTextStats(text string) (string, Stats) {
	var stats Stats
	if text == "" {
		return "", stats
	}

	healed := c.healer.HealText(text)
	cleaned := c.wordRE.ReplaceAllStringFunc(healed, func(token string) string {
		stats.WordsTotal++
		if c.classifier.Classify(token) == Delete {
			stats.WordsDeleted++
			return ""
		}
		stats.WordsKept++
		return c.sepReplacer.Replace(token)
	})
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	c.logger.Debug("cleaned text",
		zap.Int("words_total", stats.WordsTotal),
		zap.Int("words_kept", stats.WordsKept),
		zap.Int("words_deleted", stats.WordsDeleted))
	return cleaned, stats
}
