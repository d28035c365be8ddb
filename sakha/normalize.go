package sakha

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Normalizer rewrites OCR-hallucinated characters to the Sakha letters they
// were misread from, but only in alphabetic context. Digit runs that look
// like dates, page numbers or phone numbers are protected so that a "6" in
// "2006" is never rewritten while the same digit in "о 6 о л о р" is.
type Normalizer struct {
	rules     map[rune]rune
	numericRE *regexp.Regexp
}

// contextWindow is how many non-space characters around a candidate are
// scanned for a Cyrillic letter before giving up.
const contextWindow = 5

// nearbyDigitWindow is how many non-space characters around a lone digit
// are scanned for another digit before treating it as alphabetic.
const nearbyDigitWindow = 2

// NewNormalizer builds a Normalizer with the stock normalization rules.
func NewNormalizer() *Normalizer {
	rules := make(map[rune]rune, len(NormalizationRules))
	for from, to := range NormalizationRules {
		rules[from] = to
	}
	return &Normalizer{
		rules:     rules,
		numericRE: regexp.MustCompile(`\d+[\s\-.]?\d*`),
	}
}

// Normalize returns text with every rule character rewritten where it sits
// in Cyrillic context outside a protected numeric span. It is a pure
// transform; text without candidates is returned unchanged.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return text
	}

	runes := []rune(text)
	protected := n.protectedPositions(text, runes)

	changed := false
	for i, r := range runes {
		replacement, ok := n.rules[r]
		if !ok || protected[i] {
			continue
		}
		if cyrillicNearby(runes, i, -1) || cyrillicNearby(runes, i, 1) {
			runes[i] = replacement
			changed = true
		}
	}
	if !changed {
		return text
	}
	return string(runes)
}

// protectedPositions marks the rune indexes covered by numeric spans that
// must not be normalized.
func (n *Normalizer) protectedPositions(text string, runes []rune) []bool {
	protected := make([]bool, len(runes))
	matches := n.numericRE.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return protected
	}

	byteToRune := make([]int, len(text)+1)
	ri := 0
	for bi := 0; bi < len(text); {
		_, size := utf8.DecodeRuneInString(text[bi:])
		for j := 0; j < size; j++ {
			byteToRune[bi+j] = ri
		}
		bi += size
		ri++
	}
	byteToRune[len(text)] = ri

	for _, m := range matches {
		start, end := byteToRune[m[0]], byteToRune[m[1]]
		if !n.shouldProtect(text[m[0]:m[1]], runes, start) {
			continue
		}
		for i := start; i < end; i++ {
			protected[i] = true
		}
	}
	return protected
}

// shouldProtect classifies a numeric span. Multi-digit runs are always
// protected; that covers separated forms like 123-456 and 2.5 too, since a
// separator with digits on both sides lands in one match. A lone "6" or "8"
// is protected only when another digit sits within nearbyDigitWindow
// characters, since in running Sakha text those digits are usually misread
// letters. A trailing separator with nothing after it proves nothing and is
// ignored.
func (n *Normalizer) shouldProtect(match string, runes []rune, start int) bool {
	digits := 0
	for _, r := range match {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits >= 2 {
		return true
	}
	if digits == 1 {
		var digit rune
		for _, r := range match {
			if unicode.IsDigit(r) {
				digit = r
				break
			}
		}
		if digit == '6' || digit == '8' {
			return digitNearby(runes, start)
		}
		return true
	}
	return true
}

// digitNearby scans outward from pos, skipping spaces, for another digit
// within nearbyDigitWindow non-space characters on either side.
func digitNearby(runes []rune, pos int) bool {
	for _, dir := range [2]int{-1, 1} {
		checked := 0
		for i := pos + dir; i >= 0 && i < len(runes); i += dir {
			r := runes[i]
			if unicode.IsSpace(r) {
				continue
			}
			if unicode.IsDigit(r) {
				return true
			}
			checked++
			if checked >= nearbyDigitWindow {
				break
			}
		}
	}
	return false
}

// cyrillicNearby scans from pos in the given direction, skipping spaces and
// stopping at sentence punctuation, for a Cyrillic letter within
// contextWindow non-space characters.
func cyrillicNearby(runes []rune, pos, dir int) bool {
	checked := 0
	for i := pos + dir; i >= 0 && i < len(runes); i += dir {
		r := runes[i]
		switch r {
		case '.', ',', ';', ':', '!', '?':
			return false
		}
		if unicode.IsSpace(r) {
			continue
		}
		if isCyrillicLetter(r) {
			return true
		}
		checked++
		if checked >= contextWindow {
			break
		}
	}
	return false
}
