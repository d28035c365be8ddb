package sakha

import (
	"math"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// Language codes reported by detectors.
const (
	LangRussian = "ru"
	LangSakha   = "sah"
)

// LanguageDetector guesses the language of a single word. An empty language
// means the detector could not decide; confidence is in [0, 1].
type LanguageDetector interface {
	Detect(word string) (lang string, confidence float64)
}

// MorphAnalyzer reduces a word to a lemma. known reports whether the word
// carried recognizable Russian morphology.
type MorphAnalyzer interface {
	Lemma(word string) (lemma string, known bool)
}

// NameExtractor reports whether a word looks like a Russian personal name.
type NameExtractor interface {
	MatchesName(word string) bool
}

// -------------------------------------------------------------------------
// Letter and Bigram Frequency Detection
// -------------------------------------------------------------------------

// russianLetterFrequency contains standard Russian letter frequencies.
var russianLetterFrequency = map[rune]float64{
	'о': 0.1097, 'е': 0.0845, 'а': 0.0801, 'и': 0.0735, 'н': 0.0670,
	'т': 0.0626, 'с': 0.0547, 'р': 0.0473, 'в': 0.0454, 'л': 0.0440,
	'к': 0.0349, 'м': 0.0321, 'д': 0.0298, 'п': 0.0281, 'у': 0.0262,
	'я': 0.0201, 'ы': 0.0190, 'ь': 0.0174, 'г': 0.0170, 'з': 0.0165,
	'б': 0.0159, 'ч': 0.0144, 'й': 0.0121, 'х': 0.0097, 'ж': 0.0094,
	'ш': 0.0073, 'ю': 0.0064, 'ц': 0.0048, 'щ': 0.0036, 'э': 0.0032,
	'ф': 0.0026, 'ъ': 0.0004, 'ё': 0.0004,
}

// sakhaLetterFrequency contains Sakha letter frequencies. The language is
// vowel-heavy and long vowels are written doubled, so 'а' dominates; the
// letters щ, ц, ъ and ф occur only in unadapted loans.
var sakhaLetterFrequency = map[rune]float64{
	'а': 0.1460, 'ы': 0.0710, 'т': 0.0680, 'н': 0.0630, 'и': 0.0550,
	'л': 0.0520, 'р': 0.0470, 'к': 0.0460, 'о': 0.0410, 'у': 0.0380,
	'э': 0.0360, 'с': 0.0340, 'б': 0.0320, 'д': 0.0290, 'м': 0.0260,
	'х': 0.0240, 'г': 0.0210, 'й': 0.0190, 'ҕ': 0.0170, 'ө': 0.0160,
	'ү': 0.0150, 'һ': 0.0140, 'ч': 0.0110, 'ҥ': 0.0090, 'п': 0.0080,
	'е': 0.0070, 'я': 0.0050, 'в': 0.0040, 'ь': 0.0030, 'ю': 0.0030,
	'ш': 0.0020, 'з': 0.0020, 'ж': 0.0010, 'ф': 0.0004, 'ц': 0.0003,
	'ъ': 0.0002, 'щ': 0.0001,
}

// russianBigramFrequency contains the top Russian letter bigrams.
var russianBigramFrequency = map[string]float64{
	"ст": 0.021, "но": 0.020, "ен": 0.019, "то": 0.018, "на": 0.017,
	"ов": 0.016, "ни": 0.016, "ра": 0.015, "во": 0.014, "ко": 0.014,
	"пр": 0.013, "ре": 0.013, "ие": 0.012, "го": 0.012, "по": 0.012,
	"от": 0.012, "ор": 0.011, "ос": 0.011, "ер": 0.011, "ет": 0.011,
	"ел": 0.010, "та": 0.010, "ан": 0.010, "ль": 0.010, "ка": 0.010,
	"ва": 0.009, "ло": 0.009, "ом": 0.009, "ти": 0.009, "ес": 0.009,
	"ск": 0.009, "ть": 0.009, "ле": 0.008, "ия": 0.008, "ий": 0.008,
	"ны": 0.008, "ли": 0.008, "ог": 0.007, "ем": 0.007, "ми": 0.007,
	"де": 0.007, "же": 0.006, "ых": 0.005, "тс": 0.004,
}

// sakhaBigramFrequency contains the top Sakha letter bigrams. Doubled
// vowels and the agglutinative case and plural endings dominate.
var sakhaBigramFrequency = map[string]float64{
	"аа": 0.018, "ар": 0.017, "та": 0.016, "ан": 0.015, "ла": 0.014,
	"ын": 0.013, "ыт": 0.012, "ал": 0.011, "ыы": 0.011, "на": 0.010,
	"ат": 0.010, "ба": 0.010, "ах": 0.009, "ра": 0.009, "ка": 0.009,
	"ыл": 0.008, "ии": 0.008, "эр": 0.008, "ха": 0.008, "са": 0.008,
	"да": 0.007, "ма": 0.007, "ол": 0.007, "уу": 0.007, "ҕа": 0.007,
	"ин": 0.006, "лэ": 0.006, "тэ": 0.006, "ээ": 0.006, "бы": 0.006,
	"дь": 0.006, "ур": 0.006, "ки": 0.005, "ит": 0.005, "эт": 0.005,
	"ны": 0.005, "кы": 0.005, "нн": 0.005, "тт": 0.005, "нь": 0.004,
	"өр": 0.004, "үү": 0.004, "һэ": 0.004, "ҥҥ": 0.003,
}

const (
	// minDetectLetters is the fewest Cyrillic letters a word needs before
	// frequency analysis says anything at all.
	minDetectLetters = 3

	// bigramWeight lifts bigram sums into the range of cosine scores,
	// which run an order of magnitude larger.
	bigramWeight = 6.0

	// harmonyBonus is added to the Russian score when a word mixes front
	// and back vowels, which Sakha vowel harmony forbids.
	harmonyBonus = 0.08

	// confidenceGap is the score gap treated as full confidence.
	confidenceGap = 0.25
)

// FrequencyDetector guesses between Russian and Sakha from letter and
// bigram statistics. It carries no state and is safe for concurrent use.
type FrequencyDetector struct{}

// NewFrequencyDetector creates a FrequencyDetector.
func NewFrequencyDetector() *FrequencyDetector {
	return &FrequencyDetector{}
}

// Detect compares the word's letter distribution against both language
// profiles and reports the closer one. Words too short to carry a signal
// come back with an empty language.
func (d *FrequencyDetector) Detect(word string) (lang string, confidence float64) {
	letters := cyrillicRunes(strings.ToLower(word))
	if len(letters) < minDetectLetters {
		return "", 0
	}

	freq := make(map[rune]float64, len(letters))
	for _, r := range letters {
		freq[r]++
	}
	total := float64(len(letters))
	for r := range freq {
		freq[r] /= total
	}

	ruScore := cosineScore(freq, russianLetterFrequency) + bigramWeight*bigramScore(letters, russianBigramFrequency)
	saScore := cosineScore(freq, sakhaLetterFrequency) + bigramWeight*bigramScore(letters, sakhaBigramFrequency)
	if harmonyViolated(letters) {
		ruScore += harmonyBonus
	}

	gap := math.Abs(ruScore - saScore)
	if gap == 0 {
		return "", 0
	}
	confidence = gap / confidenceGap
	if confidence > 1 {
		confidence = 1
	}
	if ruScore > saScore {
		return LangRussian, confidence
	}
	return LangSakha, confidence
}

// cosineScore computes cosine similarity between a word's letter
// distribution and a language profile.
func cosineScore(freq map[rune]float64, profile map[rune]float64) float64 {
	dot := 0.0
	fMag := 0.0
	pMag := 0.0
	for r, f := range freq {
		dot += f * profile[r]
		fMag += f * f
	}
	for _, p := range profile {
		pMag += p * p
	}
	if fMag == 0 || pMag == 0 {
		return 0
	}
	return dot / (math.Sqrt(fMag) * math.Sqrt(pMag))
}

// bigramScore returns the mean profile frequency over the word's bigrams.
func bigramScore(letters []rune, profile map[string]float64) float64 {
	if len(letters) < 2 {
		return 0
	}
	score := 0.0
	pairs := 0
	for i := 0; i+1 < len(letters); i++ {
		pairs++
		score += profile[string(letters[i:i+2])]
	}
	return score / float64(pairs)
}

// harmonyViolated reports whether the word mixes front and back vowels.
func harmonyViolated(letters []rune) bool {
	front := false
	back := false
	for _, r := range letters {
		switch r {
		case 'э', 'и', 'ө', 'ү', 'е':
			front = true
		case 'а', 'о', 'у', 'ы', 'я', 'ё', 'ю':
			back = true
		}
	}
	return front && back
}

// cyrillicRunes filters s down to its Cyrillic letters.
func cyrillicRunes(s string) []rune {
	letters := make([]rune, 0, len(s)/2)
	for _, r := range s {
		if isCyrillicLetter(r) {
			letters = append(letters, r)
		}
	}
	return letters
}

// -------------------------------------------------------------------------
// Morphology via Snowball Stemming
// -------------------------------------------------------------------------

// StemmerAnalyzer approximates Russian lemmatization with the Snowball
// stemmer. A word counts as known when stemming changes it, meaning the
// stemmer found Russian inflection to strip.
type StemmerAnalyzer struct{}

// NewStemmerAnalyzer creates a StemmerAnalyzer.
func NewStemmerAnalyzer() *StemmerAnalyzer {
	return &StemmerAnalyzer{}
}

// Lemma stems the word with the Snowball Russian stemmer.
func (a *StemmerAnalyzer) Lemma(word string) (lemma string, known bool) {
	lower := strings.ToLower(word)
	stem, err := snowball.Stem(lower, "russian", true)
	if err != nil || stem == "" {
		return lower, false
	}
	return stem, stem != lower
}

// -------------------------------------------------------------------------
// Name Detection
// -------------------------------------------------------------------------

// nameSuffixes holds Russian surname and patronymic endings, longest first.
var nameSuffixes = []string{
	"ович", "евич", "ьевич", "овна", "евна", "ична",
	"ский", "ская", "цкий", "цкая",
	"ова", "ева", "ёва", "ина",
	"ов", "ев", "ёв", "ин", "ых", "их",
}

// givenNames holds common Russian first names, which carry no surname
// suffix but still mark a word as a name.
var givenNames = map[string]bool{
	"александр": true, "алексей": true, "анатолий": true, "андрей": true,
	"анна": true, "борис": true, "вадим": true, "валентина": true,
	"василий": true, "виктор": true, "владимир": true, "галина": true,
	"григорий": true, "дмитрий": true, "евгений": true, "екатерина": true,
	"елена": true, "иван": true, "игорь": true, "ирина": true,
	"константин": true, "людмила": true, "мария": true, "михаил": true,
	"надежда": true, "наталья": true, "николай": true, "олег": true,
	"ольга": true, "павел": true, "пётр": true, "петр": true,
	"светлана": true, "сергей": true, "татьяна": true, "юрий": true,
}

// minNameRunes keeps short words like Лев from matching a bare suffix.
const minNameRunes = 5

// SuffixNameExtractor flags capitalized words that are common Russian first
// names or that carry Russian surname or patronymic endings.
type SuffixNameExtractor struct{}

// NewSuffixNameExtractor creates a SuffixNameExtractor.
func NewSuffixNameExtractor() *SuffixNameExtractor {
	return &SuffixNameExtractor{}
}

// MatchesName reports whether word looks like a Russian personal name.
func (e *SuffixNameExtractor) MatchesName(word string) bool {
	runes := []rune(word)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return false
	}
	lower := strings.ToLower(word)
	if givenNames[lower] {
		return true
	}
	if len(runes) < minNameRunes {
		return false
	}
	for _, suffix := range nameSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
