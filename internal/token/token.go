// Package token normalizes free text into search terms. It is shared by
// index construction and query execution so both sides agree on term shape.
package token

import "strings"

const (
	minTermLen   = 2
	prefixMinLen = 3
	prefixMaxLen = 8
)

// stopWords are common English function words excluded from indexing.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "can": {}, "did": {}, "do": {},
	"for": {}, "from": {}, "had": {}, "has": {}, "have": {}, "he": {},
	"her": {}, "his": {}, "if": {}, "in": {}, "is": {}, "it": {},
	"its": {}, "not": {}, "of": {}, "on": {}, "or": {}, "our": {},
	"she": {}, "that": {}, "the": {}, "their": {}, "then": {}, "they": {},
	"this": {}, "to": {}, "was": {}, "were": {}, "will": {}, "with": {},
}

// Tokenize lower-cases the input, splits on whitespace, and emits each
// surviving word plus its prefixes of length 3 up to 8. Words shorter
// than two characters and stop words are dropped. Duplicate terms are
// intentional: they raise the term's frequency weight.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var terms []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		runes := []rune(word)
		if len(runes) < minTermLen {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}

		terms = append(terms, word)
		if len(runes) > prefixMinLen {
			max := len(runes)
			if max > prefixMaxLen {
				max = prefixMaxLen
			}
			for l := prefixMinLen; l <= max; l++ {
				prefix := string(runes[:l])
				// A prefix that collides with a stop word ("theory" -> "the")
				// would vanish on re-tokenization, so skip it here.
				if _, stop := stopWords[prefix]; stop {
					continue
				}
				terms = append(terms, prefix)
			}
		}
	}
	return terms
}

// IsStopWord reports whether the word is on the exclusion list.
func IsStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]
	return ok
}
