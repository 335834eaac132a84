// internal/adapters/trends/client_test.go
package trends

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keywordgen/internal/common/logger"
)

func TestAnalyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/interest", r.URL.Path)
		assert.Equal(t, "crm software", r.URL.Query().Get("q"))
		assert.Equal(t, "us", r.URL.Query().Get("geo"))
		w.Write([]byte(`{"interest": 64, "rising": true}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second}, logger.NewTestLogger(t))

	data, err := client.Analyze(context.Background(), "crm software", "us")
	require.NoError(t, err)

	assert.Equal(t, "crm software", data.Keyword)
	assert.Equal(t, 64, data.Interest)
	assert.True(t, data.Rising)
}

func TestAnalyzeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second}, logger.NewTestLogger(t))

	_, err := client.Analyze(context.Background(), "crm software", "us")
	assert.ErrorIs(t, err, ErrTrendsFailed)
}
