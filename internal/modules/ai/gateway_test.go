package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/notewise/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func demoGateway() *Gateway {
	return NewGateway(config.AIConfig{
		Provider:       "openai",
		TimeoutSeconds: 2,
		CacheTTLSec:    60,
	}, nil, zap.NewNop())
}

// brokenProviderGateway points the real client at an endpoint that always
// fails, exercising the remote-error fallback path.
func brokenProviderGateway(t *testing.T) *Gateway {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	return NewGateway(config.AIConfig{
		Provider:       "openai",
		APIKey:         "sk-test",
		Endpoint:       srv.URL,
		Model:          "gpt-3.5-turbo",
		TimeoutSeconds: 2,
		CacheTTLSec:    60,
	}, nil, zap.NewNop())
}

func TestAnalyzeUnconfiguredUsesMock(t *testing.T) {
	content := "learning about container orchestration deployments"
	got := demoGateway().Analyze(context.Background(), content, "Infra")
	assert.Equal(t, MockAnalysis(content, "Infra"), got)
}

func TestPlaceholderKeyCountsAsUnconfigured(t *testing.T) {
	gw := NewGateway(config.AIConfig{
		Provider:       "openai",
		APIKey:         config.PlaceholderAPIKey,
		TimeoutSeconds: 2,
		CacheTTLSec:    60,
	}, nil, zap.NewNop())

	content := "weekly meal planning recipes groceries"
	assert.Equal(t, MockAnalysis(content, ""), gw.Analyze(context.Background(), content, ""))
}

func TestAnalyzeProviderFailureEqualsMock(t *testing.T) {
	gw := brokenProviderGateway(t)
	content := "draft thoughts about compiler optimization passes"
	got := gw.Analyze(context.Background(), content, "Compilers")
	assert.Equal(t, MockAnalysis(content, "Compilers"), got)
}

func TestSuggestFallsBackToFixedSet(t *testing.T) {
	got := demoGateway().Suggest(context.Background(), "anything")
	assert.Equal(t, mockSuggestions, got)

	got = brokenProviderGateway(t).Suggest(context.Background(), "anything")
	assert.Equal(t, mockSuggestions, got)
}

func TestImproveDemoModeAppendsMarker(t *testing.T) {
	got := demoGateway().Improve(context.Background(), "my rough draft")
	assert.Equal(t, "my rough draft"+demoImprovedSuffix, got)
}

func TestImproveProviderFailureReturnsContentVerbatim(t *testing.T) {
	got := brokenProviderGateway(t).Improve(context.Background(), "my rough draft")
	assert.Equal(t, "my rough draft", got)
}

func TestFindRelatedFallbackTruncatesAndBoundsSimilarity(t *testing.T) {
	candidates := []NoteRef{
		{ID: "1", Title: "one"},
		{ID: "2", Title: "two"},
		{ID: "3", Title: "three"},
		{ID: "4", Title: "four"},
	}

	got := demoGateway().FindRelated(context.Background(), "content", candidates)
	require.Len(t, got, 3)
	for i, r := range got {
		assert.Equal(t, candidates[i].ID, r.ID)
		assert.Equal(t, candidates[i].Title, r.Title)
		assert.GreaterOrEqual(t, r.Similarity, 0.0)
		assert.LessOrEqual(t, r.Similarity, 1.0)
	}
}

func TestFindRelatedFallbackFewCandidates(t *testing.T) {
	got := demoGateway().FindRelated(context.Background(), "content", []NoteRef{{ID: "solo", Title: "only"}})
	require.Len(t, got, 1)
	assert.Equal(t, "solo", got[0].ID)

	assert.Empty(t, demoGateway().FindRelated(context.Background(), "content", nil))
}

func TestFindRelatedProviderFailureFallsBack(t *testing.T) {
	gw := brokenProviderGateway(t)
	got := gw.FindRelated(context.Background(), "content", []NoteRef{{ID: "a"}, {ID: "b"}})
	require.Len(t, got, 2)
}

func TestUnmarshalAIJSONToleratesFences(t *testing.T) {
	var out struct {
		Topics []string `json:"topics"`
	}
	raw := "```json\n{\"topics\":[\"x\",\"y\"]}\n```"
	require.NoError(t, unmarshalAIJSON(raw, &out))
	assert.Equal(t, []string{"x", "y"}, out.Topics)

	var arr []string
	require.NoError(t, unmarshalAIJSON("Here you go: [\"a\",\"b\"] hope that helps", &arr))
	assert.Equal(t, []string{"a", "b"}, arr)

	assert.Error(t, unmarshalAIJSON("no json here", &out))
}
