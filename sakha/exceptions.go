package sakha

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// ExceptionAction is what matching an exception entry forces.
type ExceptionAction int

const (
	// ActionDelete drops the word during classification. Plain entries in
	// a word-list file get this action.
	ActionDelete ExceptionAction = iota

	// ActionKeep preserves the word during classification ("keep:" prefix).
	ActionKeep

	// ActionNoMerge stops the repairer from merging the pattern into a
	// neighboring fragment ("nomerge:" prefix). The built-in abbreviation
	// list uses this action.
	ActionNoMerge
)

// ExceptionEntry is one loaded exclusion pattern.
type ExceptionEntry struct {
	Pattern string
	Action  ExceptionAction
	BuiltIn bool
}

// ExceptionList holds the built-in and user-supplied exclusion patterns,
// indexed for the lookups the healer and classifier perform. It is
// immutable after load and safe for concurrent readers.
type ExceptionList struct {
	entries []ExceptionEntry

	deleteStems map[string]struct{}
	keepStems   map[string]struct{}
	noMerge     []string
}

// stemSuffixes are the inflectional endings stripped before exclusion
// matching, longest first so that "лар" wins over "ар"-like overlaps.
var stemSuffixes = buildStemSuffixes()

func buildStemSuffixes() []string {
	s := make([]string, 0, len(SakhaPluralSuffixes)+len(SakhaPossessiveSuffixes))
	s = append(s, SakhaPluralSuffixes...)
	s = append(s, SakhaPossessiveSuffixes...)
	sort.Slice(s, func(i, j int) bool { return len(s[i]) > len(s[j]) })
	return s
}

// StemWord strips at most one known inflectional suffix from word,
// lowercased. Words whose remainder would fall under two runes are
// returned unstripped.
func StemWord(word string) string {
	lower := strings.ToLower(word)
	for _, suffix := range stemSuffixes {
		if !strings.HasSuffix(lower, suffix) {
			continue
		}
		stem := strings.TrimSuffix(lower, suffix)
		if len([]rune(stem)) >= 2 {
			return stem
		}
	}
	return lower
}

// LoadExceptions builds the exception list from the built-in patterns plus
// an optional word-list file. File format: one pattern per line, blank
// lines and lines starting with "#" ignored; a "keep:", "delete:" or
// "nomerge:" prefix selects the action, plain lines delete. A missing or
// unreadable file degrades to the built-in list with a logged warning,
// never an error.
func LoadExceptions(path string, logger *zap.Logger) *ExceptionList {
	if logger == nil {
		logger = zap.NewNop()
	}

	list := &ExceptionList{
		deleteStems: make(map[string]struct{}),
		keepStems:   make(map[string]struct{}),
	}
	for _, pattern := range BuiltinNoMergeExceptions {
		list.add(ExceptionEntry{Pattern: pattern, Action: ActionNoMerge, BuiltIn: true})
	}

	if path == "" {
		return list
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Warn("exceptions file unavailable, using built-in patterns only",
			zap.String("path", path), zap.Error(err))
		return list
	}
	defer f.Close()

	loaded := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		list.add(parseExceptionLine(line))
		loaded++
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("exceptions file partially read",
			zap.String("path", path), zap.Int("loaded", loaded), zap.Error(err))
	}
	logger.Debug("loaded exception patterns",
		zap.String("path", path), zap.Int("file", loaded), zap.Int("total", len(list.entries)))
	return list
}

func parseExceptionLine(line string) ExceptionEntry {
	action := ActionDelete
	switch {
	case strings.HasPrefix(line, "keep:"):
		action = ActionKeep
		line = strings.TrimSpace(strings.TrimPrefix(line, "keep:"))
	case strings.HasPrefix(line, "delete:"):
		line = strings.TrimSpace(strings.TrimPrefix(line, "delete:"))
	case strings.HasPrefix(line, "nomerge:"):
		action = ActionNoMerge
		line = strings.TrimSpace(strings.TrimPrefix(line, "nomerge:"))
	}
	return ExceptionEntry{Pattern: strings.ToLower(line), Action: action}
}

func (e *ExceptionList) add(entry ExceptionEntry) {
	entry.Pattern = strings.ToLower(entry.Pattern)
	if entry.Pattern == "" {
		return
	}
	e.entries = append(e.entries, entry)
	switch entry.Action {
	case ActionDelete:
		e.deleteStems[entry.Pattern] = struct{}{}
		e.deleteStems[StemWord(entry.Pattern)] = struct{}{}
	case ActionKeep:
		e.keepStems[entry.Pattern] = struct{}{}
		e.keepStems[StemWord(entry.Pattern)] = struct{}{}
	case ActionNoMerge:
		e.noMerge = append(e.noMerge, entry.Pattern)
	}
}

// Entries returns the loaded entries, built-in ones first.
func (e *ExceptionList) Entries() []ExceptionEntry {
	return append([]ExceptionEntry(nil), e.entries...)
}

// NoMerge reports whether word contains or starts with a pattern the
// repairer must leave alone.
func (e *ExceptionList) NoMerge(word string) bool {
	lower := strings.ToLower(word)
	for _, pattern := range e.noMerge {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// Override returns the forced decision for word when its stem matches an
// exclusion entry. The second result reports whether a match was found.
func (e *ExceptionList) Override(word string) (Decision, bool) {
	lower := strings.ToLower(word)
	stem := StemWord(lower)
	if _, ok := e.keepStems[lower]; ok {
		return Keep, true
	}
	if _, ok := e.keepStems[stem]; ok {
		return Keep, true
	}
	if _, ok := e.deleteStems[lower]; ok {
		return Delete, true
	}
	if _, ok := e.deleteStems[stem]; ok {
		return Delete, true
	}
	return Keep, false
}
