package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Quality thresholds. OCR output where nearly half the words collapse to
// single letters is broken enough that merging heuristics downstream cannot
// be trusted to recover it.
const (
	// DefaultBadnessThreshold is the single-character word ratio above
	// which extracted text counts as garbled.
	DefaultBadnessThreshold = 0.4

	// replacementRatioLimit is the tolerated share of U+FFFD replacement
	// characters before text counts as mis-decoded.
	replacementRatioLimit = 0.05
)

// Quality reports how well text extraction went for one document.
type Quality struct {
	Chars int `json:"chars"`
	Words int `json:"words"`

	// SingleCharRatio is the share of whitespace-separated words that are
	// a single rune. High values mean the extractor shredded words apart.
	SingleCharRatio float64 `json:"single_char_ratio"`

	// ReplacementRatio is the share of runes that are U+FFFD.
	ReplacementRatio float64 `json:"replacement_ratio"`

	// LetterRatio is the share of non-space runes that are letters.
	LetterRatio float64 `json:"letter_ratio"`
}

// AssessQuality scores extracted text.
func AssessQuality(text string) Quality {
	q := Quality{
		Chars:           utf8.RuneCountInString(text),
		Words:           len(strings.Fields(text)),
		SingleCharRatio: badness(text),
	}

	replacements := 0
	letters := 0
	nonSpace := 0
	for _, r := range text {
		if r == utf8.RuneError {
			replacements++
		}
		if unicode.IsSpace(r) {
			continue
		}
		nonSpace++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if q.Chars > 0 {
		q.ReplacementRatio = float64(replacements) / float64(q.Chars)
	}
	if nonSpace > 0 {
		q.LetterRatio = float64(letters) / float64(nonSpace)
	}

	return q
}

// Garbled reports whether the text is too damaged to trust: either the
// words are shredded into single letters or the bytes did not decode.
func (q Quality) Garbled() bool {
	return q.SingleCharRatio > DefaultBadnessThreshold ||
		q.ReplacementRatio > replacementRatioLimit
}

// badness is the ratio of single-rune words to all words. Empty text
// scores zero.
func badness(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	single := 0
	for _, w := range words {
		if utf8.RuneCountInString(w) == 1 {
			single++
		}
	}
	return float64(single) / float64(len(words))
}
