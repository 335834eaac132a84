// internal/adapters/volume/client_test.go
package volume

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
)

func TestLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/keywords_data/search_volume/live", r.URL.Path)

		login, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "login", login)
		assert.Equal(t, "key", password)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body["keywords"], 2)

		w.Write([]byte(`{"results": [
			{"keyword": "CRM Software", "search_volume": 5400, "difficulty": 62},
			{"keyword": "email automation", "search_volume": 880, "difficulty": 31}
		]}`))
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL: server.URL,
		Login:   "login",
		APIKey:  "key",
		Timeout: 5 * time.Second,
	}, logger.NewTestLogger(t))

	data, err := client.Lookup(context.Background(), []string{"crm software", "email automation"}, "us")
	require.NoError(t, err)

	// Results are keyed by normalized text.
	assert.Equal(t, 5400, data["crm software"].Volume)
	assert.Equal(t, 62, data["crm software"].Difficulty)
	assert.Equal(t, 880, data["email automation"].Volume)
}

func TestLookupEmptyInput(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://unused.example"}, logger.NewTestLogger(t))

	data, err := client.Lookup(context.Background(), nil, "us")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestLookupServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second}, logger.NewTestLogger(t))

	_, err := client.Lookup(context.Background(), []string{"crm software"}, "us")
	assert.ErrorIs(t, err, ErrVolumeLookupFailed)
}
