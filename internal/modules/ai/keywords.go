package ai

import (
	"strings"
	"unicode/utf8"
)

// stopWords is a closed list of articles, conjunctions and common auxiliary
// verbs excluded from keyword extraction.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {},
}

// ExtractKeywords maps free text to candidate keywords: lower-cased,
// whitespace-split, minus stop words and tokens of three characters or
// fewer. Order is first occurrence in the source and natural repetition
// is kept. The output must stay deterministic; punctuation stays attached.
func ExtractKeywords(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	keywords := make([]string, 0, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) <= 3 {
			continue
		}
		if _, ok := stopWords[word]; ok {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}
