package sakha

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Healer repairs OCR damage in extracted text: characters misread across
// scripts, words shattered into isolated letters, and hyphens left over
// from line breaks. All patterns are compiled once at construction; the
// healing functions are pure and never fail on malformed input.
type Healer struct {
	cfg        Config
	exceptions *ExceptionList
	normalizer *Normalizer
	logger     *zap.Logger

	multiSpaceRE *regexp.Regexp
	hyphenRE     *regexp.Regexp

	anchors    map[rune]bool
	diphthongs []string
	saSuffixes []string
}

// NewHealer builds a Healer from cfg. The exception list may be shared with
// a Classifier; nil degrades to the built-in patterns.
func NewHealer(cfg Config, exceptions *ExceptionList, logger *zap.Logger) *Healer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if exceptions == nil {
		exceptions = LoadExceptions("", logger)
	}

	saSuffixes := make([]string, 0, len(SakhaPluralSuffixes)+len(SakhaPossessiveSuffixes))
	saSuffixes = append(saSuffixes, SakhaPluralSuffixes...)
	saSuffixes = append(saSuffixes, SakhaPossessiveSuffixes...)

	return &Healer{
		cfg:          cfg,
		exceptions:   exceptions,
		normalizer:   NewNormalizer(),
		logger:       logger,
		multiSpaceRE: regexp.MustCompile(`\s{2,}`),
		hyphenRE:     regexp.MustCompile(`([\p{L}]+)-\n*([\p{L}]+)`),
		anchors:      runeSet(cfg.AnchorChars),
		diphthongs:   append([]string(nil), cfg.AnchorDiphthongs...),
		saSuffixes:   saSuffixes,
	}
}

// ProtectBoundaries replaces every run of two or more whitespace characters
// with the boundary sentinel. Repair treats the sentinel as impassable, so
// fragments of distinct words separated by wide gaps are never merged.
func (h *Healer) ProtectBoundaries(text string) string {
	if text == "" {
		return text
	}
	return h.multiSpaceRE.ReplaceAllString(text, " "+boundaryMarker+" ")
}

// RestoreBoundaries replaces each sentinel with a single space.
func (h *Healer) RestoreBoundaries(text string) string {
	text = strings.ReplaceAll(text, " "+boundaryMarker+" ", " ")
	// A sentinel can lose its flanking spaces only on malformed input;
	// drop any stragglers rather than leak them.
	return strings.ReplaceAll(text, boundaryMarker, " ")
}

// Normalize rewrites OCR-hallucinated characters in Cyrillic context.
func (h *Healer) Normalize(text string) string {
	return h.normalizer.Normalize(text)
}

// CheckExceptions reports whether word contains a pattern the repairer must
// leave alone, such as the "г." and "стр." abbreviations.
func (h *Healer) CheckExceptions(word string) bool {
	return h.exceptions.NoMerge(word)
}

// RepairBrokenWords reassembles words shattered into isolated letters. A
// broken word is a run of two or more single Cyrillic letters, each pair
// separated by exactly one space; the whole run collapses into one word
// when the result validates, and stays untouched when it does not. Words
// of two or more letters are never merged with their neighbors, so
// ordinary single-spaced text passes through unchanged. Each
// sentinel-delimited block is repaired independently for up to maxPasses
// iterations, stopping early once a pass stops shrinking the block.
// maxPasses values below 1 use the configured default.
func (h *Healer) RepairBrokenWords(text string, maxPasses int) string {
	if text == "" {
		return text
	}
	if maxPasses < 1 {
		maxPasses = h.cfg.HealerMaxPasses
	}

	blocks := strings.Split(text, boundaryMarker)
	for i, block := range blocks {
		previous := len(block)
		for pass := 0; pass < maxPasses; pass++ {
			block = h.repairBlock(block)
			if len(block) >= previous {
				break
			}
			previous = len(block)
		}
		blocks[i] = block
	}
	return strings.Join(blocks, boundaryMarker)
}

// repairBlock runs one collapse pass over a block. Rejected runs are kept
// verbatim, never partially merged.
func (h *Healer) repairBlock(block string) string {
	runes := []rune(block)
	n := len(runes)

	// A candidate is a lone Cyrillic letter: the runes on both sides,
	// if any, are something else.
	isSingle := func(i int) bool {
		if !isCyrillicLetter(runes[i]) {
			return false
		}
		if i > 0 && isCyrillicLetter(runes[i-1]) {
			return false
		}
		if i+1 < n && isCyrillicLetter(runes[i+1]) {
			return false
		}
		return true
	}

	var b strings.Builder
	b.Grow(len(block))
	changed := false
	for i := 0; i < n; {
		if !isSingle(i) {
			b.WriteRune(runes[i])
			i++
			continue
		}

		end := i
		for end+2 < n && runes[end+1] == ' ' && isSingle(end+2) {
			end += 2
		}
		if end == i {
			b.WriteRune(runes[i])
			i++
			continue
		}

		letters := make([]rune, 0, (end-i)/2+1)
		for j := i; j <= end; j += 2 {
			letters = append(letters, runes[j])
		}
		word := string(letters)
		if h.mergeValid(word) {
			b.WriteString(word)
			changed = true
		} else {
			b.WriteString(string(runes[i : end+1]))
		}
		i = end + 1
	}
	if !changed {
		return block
	}
	return b.String()
}

// mergeValid decides whether a collapsed run may stand as a word.
func (h *Healer) mergeValid(word string) bool {
	if h.exceptions.NoMerge(word) {
		return false
	}
	if !h.lengthValid(word) {
		h.logger.Debug("merge rollback: length", zap.String("word", word))
		return false
	}
	if !h.phoneticValid(word) {
		h.logger.Debug("merge rollback: consonant run", zap.String("word", word))
		return false
	}
	return true
}

// lengthValid bounds merged words. Anchored words bypass the bound: native
// compounds legitimately exceed it.
func (h *Healer) lengthValid(word string) bool {
	for _, r := range word {
		if h.anchors[unicode.ToLower(r)] {
			return true
		}
	}
	return utf8.RuneCountInString(word) <= maxWordLength
}

// phoneticValid rejects words with an implausible consonant run. Vowels and
// non-letters reset the run.
func (h *Healer) phoneticValid(word string) bool {
	run := 0
	for _, r := range word {
		if !isCyrillicLetter(r) || isVowel(r) {
			run = 0
			continue
		}
		run++
		if run >= maxConsonantRun {
			return false
		}
	}
	return true
}

// ResolveHyphens merges hyphenated fragments left behind by line breaks.
// The merge happens only when both fragments independently look native,
// so legitimate compounds and foreign hyphenations survive.
func (h *Healer) ResolveHyphens(text string) string {
	if text == "" {
		return text
	}
	matches := h.hyphenRE.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		part1 := text[m[2]:m[3]]
		part2 := text[m[4]:m[5]]
		b.WriteString(text[last:m[0]])
		if h.nativeFragment(part1) && h.nativeFragment(part2) {
			b.WriteString(part1)
			b.WriteString(part2)
		} else {
			b.WriteString(text[m[0]:m[1]])
		}
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// nativeFragment reports whether a hyphen fragment looks Sakha on its own:
// it carries an anchor letter, an anchor diphthong, or a native suffix.
func (h *Healer) nativeFragment(s string) bool {
	lower := strings.ToLower(s)
	for _, r := range lower {
		if h.anchors[r] {
			return true
		}
	}
	for _, d := range h.diphthongs {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return hasSuffixIn(lower, h.saSuffixes)
}

// HealText runs the full healing pipeline in fixed order: protect
// boundaries, normalize characters, repair broken words, resolve hyphens,
// restore boundaries, collapse whitespace. Healing a healed text is a
// no-op. When the healer is disabled the input passes through unchanged.
func (h *Healer) HealText(text string) string {
	if !h.cfg.HealerEnabled || text == "" {
		return text
	}

	healed := h.ProtectBoundaries(text)
	healed = h.normalizer.Normalize(healed)
	healed = h.RepairBrokenWords(healed, 0)
	healed = h.ResolveHyphens(healed)
	healed = h.RestoreBoundaries(healed)
	healed = strings.Join(strings.Fields(healed), " ")

	if len(healed) != len(text) {
		h.logger.Debug("healed text",
			zap.Int("chars_in", utf8.RuneCountInString(text)),
			zap.Int("chars_out", utf8.RuneCountInString(healed)))
	}
	return healed
}
