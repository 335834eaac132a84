// internal/adapters/gaps/analyzer_test.go
package gaps

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keywordgen/internal/common/logger"
	"keywordgen/internal/models"
)

func TestAnalyzeGaps(t *testing.T) {
	var gotRequest map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/gap-analysis", r.URL.Path)
		assert.Equal(t, "Token secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		w.Write([]byte(`{"keywords": [
			{"keyword": "crm software pricing", "intent": "commercial", "volume": 1200, "difficulty": 38, "aeo_score": 82},
			{"keyword": "how to pick a crm", "intent": "question", "aeo_score": 64},
			{"keyword": "   ", "intent": "commercial"}
		]}`))
	}))
	defer server.Close()

	analyzer := NewAnalyzer(Config{
		BaseURL: server.URL,
		APIKey:  "secret",
		Timeout: 5 * time.Second,
	}, logger.NewTestLogger(t))

	keywords, err := analyzer.AnalyzeGaps(context.Background(), "acme.example", []string{"a.example", "b.example", "c.example", "d.example"}, "us")
	require.NoError(t, err)

	assert.Equal(t, "acme.example", gotRequest["domain"])
	assert.Equal(t, "us", gotRequest["source"])
	// Competitor list is capped.
	assert.Len(t, gotRequest["competitors"], 3)

	require.Len(t, keywords, 2)
	assert.Equal(t, "crm software pricing", keywords[0].Text)
	assert.Equal(t, models.SourceGapAnalysis, keywords[0].Source)
	assert.Equal(t, 82, keywords[0].Score)
	assert.Equal(t, 1200, keywords[0].Volume)
	assert.Equal(t, 38, keywords[0].Difficulty)

	assert.True(t, keywords[1].IsQuestion)
	assert.Equal(t, models.IntentQuestion, keywords[1].Intent)
	// Missing difficulty falls back to the neutral default.
	assert.Equal(t, 50, keywords[1].Difficulty)
}

func TestAnalyzeGapsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	analyzer := NewAnalyzer(Config{BaseURL: server.URL, Timeout: 5 * time.Second}, logger.NewTestLogger(t))

	_, err := analyzer.AnalyzeGaps(context.Background(), "acme.example", nil, "us")
	assert.ErrorIs(t, err, ErrGapAnalysisFailed)
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"https://www.acme.example/pricing?x=1", "acme.example"},
		{"http://acme.example", "acme.example"},
		{"WWW.Acme.Example/path", "acme.example"},
		{"acme.example#anchor", "acme.example"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExtractDomain(tt.raw))
	}
}
