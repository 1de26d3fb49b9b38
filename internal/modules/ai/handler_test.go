package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/notewise/core/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCandidates struct {
	refs map[string][]NoteRef
}

func (s staticCandidates) ListRefs(_ context.Context, userID string) ([]NoteRef, error) {
	return s.refs[userID], nil
}

func aiRouter(gw *Gateway, notes CandidateSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.ResolveUser())
	NewHandler(gw, notes).RegisterRoutes(api)
	return r
}

func post(t *testing.T, r *gin.Engine, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	parsed := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed), w.Body.String())
	return w, parsed
}

func TestAnalyzeEndpoint(t *testing.T) {
	r := aiRouter(demoGateway(), staticCandidates{})

	content := "planning weekend hiking trip mountains"
	w, body := post(t, r, "/api/ai/analyze", gin.H{"content": content, "title": "Trip"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var a Analysis
	require.NoError(t, json.Unmarshal(body["analysis"], &a))
	assert.Equal(t, MockAnalysis(content, "Trip"), a)
}

func TestAnalyzeEndpointRequiresContent(t *testing.T) {
	r := aiRouter(demoGateway(), staticCandidates{})

	for _, body := range []interface{}{
		gin.H{"content": ""},
		gin.H{"content": "   "},
		gin.H{"title": "only title"},
		"not an object",
	} {
		w, resp := post(t, r, "/api/ai/analyze", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %v", body)
		assert.JSONEq(t, `"Content is required"`, string(resp["error"]))
	}
}

func TestImproveEndpointDemoMode(t *testing.T) {
	r := aiRouter(demoGateway(), staticCandidates{})

	w, body := post(t, r, "/api/ai/improve", gin.H{"content": "my rough draft"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var improved string
	require.NoError(t, json.Unmarshal(body["improvedContent"], &improved))
	assert.Equal(t, "my rough draft"+demoImprovedSuffix, improved)
}

func TestSuggestionsEndpointDemoMode(t *testing.T) {
	r := aiRouter(demoGateway(), staticCandidates{})

	w, body := post(t, r, "/api/ai/suggestions", gin.H{"content": "anything"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var suggestions []string
	require.NoError(t, json.Unmarshal(body["suggestions"], &suggestions))
	assert.Equal(t, mockSuggestions, suggestions)
}

func TestRelatedEndpointScopedToCaller(t *testing.T) {
	src := staticCandidates{refs: map[string][]NoteRef{
		"alice": {{ID: "a1", Title: "one"}, {ID: "a2", Title: "two"}},
	}}
	r := aiRouter(demoGateway(), src)

	w, body := post(t, r, "/api/ai/related", gin.H{"content": "query"},
		map[string]string{"X-User-Id": "alice"})
	require.Equal(t, http.StatusOK, w.Code)

	var related []RelatedNote
	require.NoError(t, json.Unmarshal(body["relatedNotes"], &related))
	require.Len(t, related, 2)
	assert.Equal(t, "a1", related[0].ID)

	// caller with no notes gets an empty array, not null
	w, body = post(t, r, "/api/ai/related", gin.H{"content": "query"},
		map[string]string{"X-User-Id": "bob"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", string(body["relatedNotes"]))
}
