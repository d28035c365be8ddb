package sakha

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Decision is the verdict for a single word.
type Decision int

const (
	// Keep leaves the word in the text.
	Keep Decision = iota
	// Delete removes the word from the text.
	Delete
)

func (d Decision) String() string {
	if d == Delete {
		return "delete"
	}
	return "keep"
}

// Layer identifies which classification layer produced a decision.
type Layer int

const (
	LayerNone Layer = iota
	LayerAnchor
	LayerExclusion
	LayerMarker
	LayerSuffix
	LayerFallback
	LayerDefault
)

func (l Layer) String() string {
	switch l {
	case LayerAnchor:
		return "anchor"
	case LayerExclusion:
		return "exclusion"
	case LayerMarker:
		return "marker"
	case LayerSuffix:
		return "suffix"
	case LayerFallback:
		return "fallback"
	case LayerDefault:
		return "default"
	default:
		return "none"
	}
}

// Classifier decides, word by word, what survives cleaning. Layers are
// checked in a fixed order and the first verdict wins: anchor characters,
// the exclusion list, marker characters, suffix patterns, and finally the
// statistical fallback. A Classifier is safe for concurrent use once built.
type Classifier struct {
	cfg        Config
	exceptions *ExceptionList
	logger     *zap.Logger

	anchors    map[rune]bool
	diphthongs []string
	markers    map[rune]bool
	saSuffixes []string
	ruSuffixes []string

	// Fallback analyzers are built lazily: most words resolve in the
	// pattern layers and never need them.
	analyzersOnce sync.Once
	detector      LanguageDetector
	morph         MorphAnalyzer
	names         NameExtractor
}

// NewClassifier builds a Classifier from cfg. The exception list may be
// shared with a Healer; nil degrades to the built-in patterns.
func NewClassifier(cfg Config, exceptions *ExceptionList, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if exceptions == nil {
		exceptions = LoadExceptions("", logger)
	}

	saSuffixes := make([]string, 0, len(SakhaPluralSuffixes)+len(SakhaPossessiveSuffixes))
	saSuffixes = append(saSuffixes, SakhaPluralSuffixes...)
	saSuffixes = append(saSuffixes, SakhaPossessiveSuffixes...)

	ruSuffixes := make([]string, 0, len(RussianVerbSuffixes)+len(RussianAdjSuffixes)+len(RussianNounSuffixes))
	ruSuffixes = append(ruSuffixes, RussianVerbSuffixes...)
	ruSuffixes = append(ruSuffixes, RussianAdjSuffixes...)
	ruSuffixes = append(ruSuffixes, RussianNounSuffixes...)

	return &Classifier{
		cfg:        cfg,
		exceptions: exceptions,
		logger:     logger,
		anchors:    runeSet(cfg.AnchorChars),
		diphthongs: append([]string(nil), cfg.AnchorDiphthongs...),
		markers:    cfg.markerSet(),
		saSuffixes: saSuffixes,
		ruSuffixes: ruSuffixes,
	}
}

// UseFallback installs replacement fallback analyzers. Call it before the
// first classification; nil arguments keep the corresponding default.
func (c *Classifier) UseFallback(detector LanguageDetector, morph MorphAnalyzer, names NameExtractor) {
	if detector != nil {
		c.detector = detector
	}
	if morph != nil {
		c.morph = morph
	}
	if names != nil {
		c.names = names
	}
}

func (c *Classifier) ensureAnalyzers() {
	c.analyzersOnce.Do(func() {
		if c.detector == nil {
			c.detector = NewFrequencyDetector()
		}
		if c.morph == nil {
			c.morph = NewStemmerAnalyzer()
		}
		if c.names == nil {
			c.names = NewSuffixNameExtractor()
		}
	})
}

// Classify returns the verdict for word.
func (c *Classifier) Classify(word string) Decision {
	decision, _ := c.ClassifyDetail(word)
	return decision
}

// ClassifyDetail returns the verdict for word together with the layer that
// produced it.
func (c *Classifier) ClassifyDetail(word string) (Decision, Layer) {
	lower := strings.ToLower(word)

	// Anchor characters are unique to the native script, so they
	// override every later layer, the exclusion list included.
	if c.hasAnchor(lower) {
		return Keep, LayerAnchor
	}
	if decision, ok := c.exceptions.Override(lower); ok {
		return decision, LayerExclusion
	}
	if c.hasMarker(lower) {
		return Delete, LayerMarker
	}
	if hasSuffixIn(lower, c.saSuffixes) {
		return Keep, LayerSuffix
	}
	if hasSuffixIn(lower, c.ruSuffixes) {
		return Delete, LayerSuffix
	}
	return c.classifyFallback(word)
}

// classifyFallback consults the statistical analyzers. Sensitivity scales
// how much detector confidence a deletion needs; zero sensitivity turns
// fallback deletion off entirely.
func (c *Classifier) classifyFallback(word string) (Decision, Layer) {
	if c.cfg.PatternSensitivity <= 0 {
		return Keep, LayerDefault
	}
	c.ensureAnalyzers()
	minConf := 1 - c.cfg.PatternSensitivity

	lang, conf := c.detector.Detect(word)
	switch {
	case lang == LangRussian && conf >= minConf:
		c.logger.Debug("fallback delete",
			zap.String("word", word),
			zap.String("evidence", "detector"),
			zap.Float64("confidence", conf))
		return Delete, LayerFallback
	case lang != "" && lang != LangRussian:
		return Keep, LayerFallback
	}

	if c.names.MatchesName(word) {
		c.logger.Debug("fallback delete",
			zap.String("word", word),
			zap.String("evidence", "name"))
		return Delete, LayerFallback
	}

	// Morphology is the weakest signal; it only acts when the detector
	// had no verdict at all.
	if lang == "" {
		if lemma, known := c.morph.Lemma(word); known {
			c.logger.Debug("fallback delete",
				zap.String("word", word),
				zap.String("evidence", "morphology"),
				zap.String("lemma", lemma))
			return Delete, LayerFallback
		}
	}
	return Keep, LayerDefault
}

func (c *Classifier) hasAnchor(lower string) bool {
	for _, r := range lower {
		if c.anchors[r] {
			return true
		}
	}
	for _, d := range c.diphthongs {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

func (c *Classifier) hasMarker(lower string) bool {
	for _, r := range lower {
		if c.markers[r] {
			return true
		}
	}
	return false
}

func hasSuffixIn(word string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(word, s) {
			return true
		}
	}
	return false
}
