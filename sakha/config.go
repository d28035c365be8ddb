package sakha

import "fmt"

// Config holds the settings shared by the healer and the classifier.
// Start from DefaultConfig and override fields rather than building a
// Config from scratch, so that newly added knobs keep sane values.
type Config struct {
	// HealerEnabled turns the whole healing stage on or off. When off,
	// CleanText classifies the input as-is.
	HealerEnabled bool `yaml:"healer_enabled" json:"healer_enabled"`

	// HealerMaxPasses bounds the repair iterations per text block.
	HealerMaxPasses int `yaml:"healer_max_passes" json:"healer_max_passes"`

	// ExceptionsFile optionally points at a word-list file, one pattern
	// per line. Missing files degrade to the built-in list with a warning.
	ExceptionsFile string `yaml:"exceptions_file,omitempty" json:"exceptions_file,omitempty"`

	// AnchorChars are the letters whose presence proves a word is Sakha.
	AnchorChars string `yaml:"anchor_chars" json:"anchor_chars"`

	// AnchorDiphthongs are letter pairs whose presence proves a word is
	// Sakha.
	AnchorDiphthongs []string `yaml:"anchor_diphthongs" json:"anchor_diphthongs"`

	// MarkerChars are the letters whose presence (without an anchor)
	// marks a word as Russian.
	MarkerChars string `yaml:"marker_chars" json:"marker_chars"`

	// UseSecondaryMarker additionally treats "в" as a Russian marker.
	// It is separate from MarkerChars because a few Sakha loanwords
	// contain it.
	UseSecondaryMarker bool `yaml:"use_secondary_marker" json:"use_secondary_marker"`

	// PatternSensitivity in [0,1] controls how readily the fallback layer
	// deletes a word. 0 disables fallback deletion entirely; 1 acts on
	// any analyzer verdict however weak.
	PatternSensitivity float64 `yaml:"pattern_sensitivity" json:"pattern_sensitivity"`
}

// DefaultConfig returns the configuration used by the stock pipeline.
func DefaultConfig() Config {
	return Config{
		HealerEnabled:      true,
		HealerMaxPasses:    5,
		AnchorChars:        DefaultAnchorChars,
		AnchorDiphthongs:   append([]string(nil), DefaultAnchorDiphthongs...),
		MarkerChars:        DefaultMarkerChars,
		UseSecondaryMarker: true,
		PatternSensitivity: 0.5,
	}
}

// Validate reports configuration errors. It is called once at construction
// of the pipeline; processing functions never re-validate.
func (c Config) Validate() error {
	if c.PatternSensitivity < 0 || c.PatternSensitivity > 1 {
		return fmt.Errorf("pattern sensitivity %v out of range [0,1]", c.PatternSensitivity)
	}
	if c.HealerEnabled && c.HealerMaxPasses < 1 {
		return fmt.Errorf("healer max passes must be at least 1, got %d", c.HealerMaxPasses)
	}
	return nil
}

// markerSet builds the effective marker lookup, honoring the secondary
// marker toggle.
func (c Config) markerSet() map[rune]bool {
	set := runeSet(c.MarkerChars)
	if c.UseSecondaryMarker {
		set[SecondaryMarkerChar] = true
	}
	return set
}
