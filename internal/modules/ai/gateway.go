package ai

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	neturl "net/url"
	"sort"
	"strings"
	"time"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/notewise/core/internal/config"
	pkgredis "github.com/notewise/core/internal/pkg/redis"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
	"go.uber.org/zap"
)

const (
	analyzePromptTpl = `Analyze this note and provide the following:

Title: "%s"
Content: "%s"

Please provide a JSON response with:
1. "topics": Extract 3-5 key topics from the content
2. "tags": Generate 3-7 relevant tags (short, descriptive keywords)
3. "suggestions": Provide 2-3 smart suggestions for completing or improving the note
4. "improvements": Suggest grammar and style improvements (be specific)
5. "relatedTopics": Suggest 3-5 related topics that could be explored

Format the response as valid JSON only.`

	suggestPromptTpl = `Based on this note content, provide 3 smart suggestions for completing or expanding the note:

"%s"

Return only a JSON array of suggestion strings.`

	improvePromptTpl = `Improve the grammar and style of this text while keeping the original meaning and tone:

"%s"

Return only the improved text.`

	relatedPromptTpl = `Given this note content: "%s"

And these existing notes:
%s

Find the 3 most related notes and return a JSON array of objects with "id", "title" and "similarity" (0-1).`

	maxPromptContentLen = 3000
	maxRelatedResults   = 3
)

// RelatedNote is one entry of a FindRelated result.
type RelatedNote struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}

// NoteRef is the candidate projection handed to FindRelated.
type NoteRef struct {
	ID      string
	Title   string
	Content string
}

// Gateway wraps the remote text-analysis provider. Every operation is
// best-effort: with no credential configured, on any remote error, timeout
// or unparseable response, the deterministic fallback is returned and the
// failure is only logged. Callers never observe an enrichment error.
type Gateway struct {
	cfg      config.AIConfig
	cache    *pkgredis.Client
	log      *zap.Logger
	timeout  time.Duration
	cacheTTL time.Duration
}

// NewGateway builds the gateway once per process; cache may be nil, which
// disables analysis caching.
func NewGateway(cfg config.AIConfig, cache *pkgredis.Client, log *zap.Logger) *Gateway {
	return &Gateway{
		cfg:      cfg,
		cache:    cache,
		log:      log,
		timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		cacheTTL: time.Duration(cfg.CacheTTLSec) * time.Second,
	}
}

// Analyze enriches content with topics, tags, suggestions, improvements and
// related topics. Falls back to MockAnalysis.
func (g *Gateway) Analyze(ctx context.Context, content, title string) Analysis {
	if !g.cfg.Configured() {
		return MockAnalysis(content, title)
	}
	if cached, ok := g.cachedAnalysis(ctx, content, title); ok {
		return cached
	}

	raw, err := g.generate(ctx, fmt.Sprintf(analyzePromptTpl, title, truncateText(content, maxPromptContentLen)), 600)
	if err != nil {
		g.log.Warn("ai analyze failed, falling back to mock analysis", zap.Error(err))
		return MockAnalysis(content, title)
	}

	var analysis Analysis
	if err := unmarshalAIJSON(raw, &analysis); err != nil {
		g.log.Warn("ai analyze returned malformed payload, falling back to mock analysis", zap.Error(err))
		return MockAnalysis(content, title)
	}

	g.storeAnalysis(ctx, content, title, analysis)
	return analysis
}

// Suggest returns completion suggestions for the content. Falls back to the
// fixed demo suggestion set.
func (g *Gateway) Suggest(ctx context.Context, content string) []string {
	fallback := append([]string(nil), mockSuggestions...)
	if !g.cfg.Configured() {
		return fallback
	}

	raw, err := g.generate(ctx, fmt.Sprintf(suggestPromptTpl, truncateText(content, maxPromptContentLen)), 300)
	if err != nil {
		g.log.Warn("ai suggest failed, falling back to fixed suggestions", zap.Error(err))
		return fallback
	}

	var suggestions []string
	if err := unmarshalAIJSON(raw, &suggestions); err != nil || len(suggestions) == 0 {
		g.log.Warn("ai suggest returned malformed payload, falling back to fixed suggestions")
		return fallback
	}
	return suggestions
}

// Improve rewrites content for grammar and style. Demo mode appends a marker
// suffix; a failed remote call returns the input verbatim.
func (g *Gateway) Improve(ctx context.Context, content string) string {
	if !g.cfg.Configured() {
		return content + demoImprovedSuffix
	}

	raw, err := g.generate(ctx, fmt.Sprintf(improvePromptTpl, content), 1000)
	if err != nil || strings.TrimSpace(raw) == "" {
		g.log.Warn("ai improve failed, returning content unchanged", zap.Error(err))
		return content
	}
	return strings.TrimSpace(raw)
}

// FindRelated ranks candidate notes against the content. Provider results
// are clamped to [0,1], ordered by descending similarity and truncated to 3.
// The fallback takes the first candidates with a placeholder similarity in
// [0.3, 0.8); it is not a ranking.
func (g *Gateway) FindRelated(ctx context.Context, content string, candidates []NoteRef) []RelatedNote {
	if !g.cfg.Configured() {
		return placeholderRelated(candidates)
	}

	raw, err := g.generate(ctx, relatedPrompt(content, candidates), 400)
	if err != nil {
		g.log.Warn("ai related failed, falling back to placeholder similarity", zap.Error(err))
		return placeholderRelated(candidates)
	}

	var related []RelatedNote
	if err := unmarshalAIJSON(raw, &related); err != nil {
		g.log.Warn("ai related returned malformed payload, falling back to placeholder similarity", zap.Error(err))
		return placeholderRelated(candidates)
	}

	for i := range related {
		if related[i].Similarity < 0 {
			related[i].Similarity = 0
		}
		if related[i].Similarity > 1 {
			related[i].Similarity = 1
		}
	}
	sort.SliceStable(related, func(i, j int) bool {
		return related[i].Similarity > related[j].Similarity
	})
	if len(related) > maxRelatedResults {
		related = related[:maxRelatedResults]
	}
	return related
}

func placeholderRelated(candidates []NoteRef) []RelatedNote {
	n := len(candidates)
	if n > maxRelatedResults {
		n = maxRelatedResults
	}
	out := make([]RelatedNote, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, RelatedNote{
			ID:         c.ID,
			Title:      c.Title,
			Similarity: 0.3 + rand.Float64()*0.5,
		})
	}
	return out
}

func relatedPrompt(content string, candidates []NoteRef) string {
	lines := make([]string, 0, len(candidates))
	for _, c := range candidates {
		lines = append(lines, fmt.Sprintf("- ID: %s, Title: %q, Content: %q", c.ID, c.Title, truncateText(c.Content, 200)))
	}
	return fmt.Sprintf(relatedPromptTpl, truncateText(content, maxPromptContentLen), strings.Join(lines, "\n"))
}

// generate runs one provider call under the configured timeout.
func (g *Gateway) generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	model, err := g.languageModel()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := jetai.GenerateText(
		ctx,
		[]jetapi.Message{&jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)}},
		jetai.WithModel(model),
		jetai.WithMaxOutputTokens(maxTokens),
	)
	if err != nil {
		return "", err
	}
	return extractTextFromResponse(resp)
}

func (g *Gateway) languageModel() (jetapi.LanguageModel, error) {
	apiKey := strings.TrimSpace(g.cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("ai provider api key is empty")
	}
	modelID := strings.TrimSpace(g.cfg.Model)
	endpoint := strings.TrimSpace(g.cfg.Endpoint)

	if g.cfg.Provider == "anthropic" {
		if modelID == "" {
			modelID = "claude-haiku-4-5-20251001"
		}
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
		}
		client := anthropicclient.NewClient(opts...)
		return jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client)), nil
	}

	if modelID == "" {
		modelID = "gpt-3.5-turbo"
	}
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if normalized := normalizeOpenAIBaseURL(endpoint); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}
	client := openaiclient.NewClient(opts...)
	return jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client)), nil
}

func extractTextFromResponse(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errors.New("empty response from AI")
	}

	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}

	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from AI")
	}
	return text, nil
}

// unmarshalAIJSON tolerates markdown fences and prose around the JSON body.
func unmarshalAIJSON(raw string, out interface{}) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	for _, pair := range [2][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(cleaned, pair[0])
		end := strings.LastIndex(cleaned, pair[1])
		if start >= 0 && end > start {
			if err := json.Unmarshal([]byte(cleaned[start:end+1]), out); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("invalid JSON response from AI")
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}

func analysisCacheKey(content, title string) string {
	h := sha256.Sum256([]byte(title + "\x00" + content))
	return fmt.Sprintf("ai:analysis:%x", h)
}

func (g *Gateway) cachedAnalysis(ctx context.Context, content, title string) (Analysis, bool) {
	if g.cache == nil {
		return Analysis{}, false
	}
	raw, err := g.cache.Get(ctx, analysisCacheKey(content, title))
	if err != nil || raw == "" {
		return Analysis{}, false
	}
	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return Analysis{}, false
	}
	return analysis, true
}

func (g *Gateway) storeAnalysis(ctx context.Context, content, title string, analysis Analysis) {
	if g.cache == nil {
		return
	}
	payload, err := json.Marshal(analysis)
	if err != nil {
		return
	}
	if err := g.cache.Set(ctx, analysisCacheKey(content, title), payload, g.cacheTTL); err != nil {
		g.log.Warn("analysis cache write failed", zap.Error(err))
	}
}
