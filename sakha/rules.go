package sakha

// DefaultAnchorChars are letters that exist only in the Sakha alphabet.
// A word containing any of them cannot be Russian.
const DefaultAnchorChars = "ҕҥөһү"

// DefaultAnchorDiphthongs are vowel combinations characteristic of Sakha.
var DefaultAnchorDiphthongs = []string{"уо", "иэ", "ыа", "үө"}

// DefaultMarkerChars are letters unique to Russian or vanishingly rare in
// Sakha. Their presence (absent an anchor) marks a word as Russian.
const DefaultMarkerChars = "щцъф"

// SecondaryMarkerChar is "в", which is diagnostic of Russian but appears in
// a handful of Sakha loanwords. It is applied only when
// Config.UseSecondaryMarker is set.
const SecondaryMarkerChar = 'в'

// Russian morphological suffix tables. A word ending in one of these is
// treated as Russian unless an earlier layer already decided otherwise.
var (
	RussianVerbSuffixes = []string{"ться", "тся", "ешь", "ишь"}
	RussianAdjSuffixes  = []string{"ий", "ый", "ая", "ое", "ые"}
	RussianNounSuffixes = []string{"ость", "ение", "ание"}
)

// SakhaPluralSuffixes lists the plural endings across all vowel-harmony
// variants.
var SakhaPluralSuffixes = []string{
	"лар", "лер", "лор", "лөр",
	"тар", "тэр", "тор", "төр",
	"дар", "дэр", "дор", "дөр",
	"нар", "нер", "нор", "нөр",
}

// SakhaPossessiveSuffixes lists common possessive endings.
var SakhaPossessiveSuffixes = []string{"та", "тэ", "тын", "быт"}

// NormalizationRules maps characters hallucinated by OCR to the Sakha
// letters they were misread from. Only mappings that cannot corrupt
// legitimate Russian words are included; "б" -> "ҕ" in particular is
// excluded because it rewrites words like "было".
var NormalizationRules = map[rune]rune{
	'6': 'ҕ',
	'h': 'һ',
	'H': 'Һ',
	'o': 'ө',
	'O': 'Ө',
	'y': 'ү',
	'Y': 'Ү',
	'8': 'ө',
}

// BuiltinNoMergeExceptions are abbreviations the repairer must never merge
// into neighboring words.
var BuiltinNoMergeExceptions = []string{
	"г.",    // город
	"стр.",  // страница
	"т.д.",  // так далее
	"и т.д.",
}

// boundaryMarker stands in for a run of two or more spaces while text is
// being healed. It never survives into output. None of its characters may
// appear as a source in NormalizationRules, or the normalizer could corrupt
// the marker before restoration.
const boundaryMarker = "[[BREAK]]"

// vowels covers standard Cyrillic vowels plus the Sakha-specific ones, both
// cases.
const vowels = "аэиоуыеёюяөүАЭИОУЫЕЁЮЯӨҮ"

const (
	// maxWordLength bounds merged words during repair. Words carrying a
	// Sakha anchor bypass the bound, since native compounds run long.
	maxWordLength = 25

	// maxConsonantRun bounds consecutive consonants in a merged word.
	// No Sakha word reaches ten.
	maxConsonantRun = 10
)

// isCyrillicLetter reports whether r is a Cyrillic letter of the combined
// Russian and Sakha alphabets.
func isCyrillicLetter(r rune) bool {
	if (r >= 'а' && r <= 'я') || (r >= 'А' && r <= 'Я') || r == 'ё' || r == 'Ё' {
		return true
	}
	switch r {
	case 'ҕ', 'Ҕ', 'ҥ', 'Ҥ', 'ө', 'Ө', 'һ', 'Һ', 'ү', 'Ү':
		return true
	}
	return false
}

// isVowel reports whether r is a vowel of the combined alphabet.
func isVowel(r rune) bool {
	for _, v := range vowels {
		if r == v {
			return true
		}
	}
	return false
}

// runeSet builds a lookup set from the runes of s.
func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}
