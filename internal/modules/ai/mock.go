package ai

// Analysis is the transient enrichment result for a piece of content. Only
// Tags and Topics are ever persisted onto a note; the rest is scoped to one
// editing session.
type Analysis struct {
	Topics        []string `json:"topics"`
	Tags          []string `json:"tags"`
	Suggestions   []string `json:"suggestions"`
	Improvements  string   `json:"improvements"`
	RelatedTopics []string `json:"relatedTopics"`
}

var mockSuggestions = []string{
	"Consider adding more specific examples",
	"You might want to expand on this point",
	"Add a conclusion or next steps",
}

const mockImprovements = "The content looks good! Consider varying sentence length for better flow."

// demoImprovedSuffix marks demo-mode rewrites so the editor shows that
// something happened.
const demoImprovedSuffix = " (Improved with better flow and clarity)"

// MockAnalysis builds a complete analysis from extracted keywords. It is
// deterministic and total. Topics and related topics intentionally share the
// same head of the keyword list; title is accepted only for signature parity
// with the provider call.
func MockAnalysis(content, title string) Analysis {
	_ = title
	keywords := ExtractKeywords(content)
	return Analysis{
		Topics:        firstN(keywords, 3),
		Tags:          firstN(keywords, 5),
		Suggestions:   append([]string(nil), mockSuggestions...),
		Improvements:  mockImprovements,
		RelatedTopics: firstN(keywords, 3),
	}
}

func firstN(items []string, n int) []string {
	if len(items) < n {
		n = len(items)
	}
	out := make([]string, n)
	copy(out, items[:n])
	return out
}
