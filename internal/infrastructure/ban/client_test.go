package ban

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RustySU/network-coverage/internal/config"
	"github.com/RustySU/network-coverage/internal/domain"
)

func testConfig(baseURL string) *config.GeocoderConfig {
	return &config.GeocoderConfig{
		BaseURL:        baseURL,
		RequestTimeout: 2 * time.Second,
		MinScore:       0.4,
		MaxCandidates:  5,
	}
}

func TestClient_Lookup(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "157 boulevard Mac Donald 75019 Paris", r.URL.Query().Get("q"))
			assert.Equal(t, "5", r.URL.Query().Get("limit"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"type": "FeatureCollection",
				"features": [
					{
						"geometry": {"type": "Point", "coordinates": [2.374402, 48.897421]},
						"properties": {"label": "157 Boulevard Macdonald 75019 Paris", "score": 0.97}
					},
					{
						"geometry": {"type": "Point", "coordinates": [2.37, 48.89]},
						"properties": {"label": "Boulevard Macdonald 75019 Paris", "score": 0.61}
					}
				]
			}`))
		}))
		defer server.Close()

		c := NewClient(testConfig(server.URL), logger)

		candidates, err := c.Lookup(context.Background(), "157 boulevard Mac Donald 75019 Paris")
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.InDelta(t, 48.897421, candidates[0].Location.Lat, 1e-9)
		assert.InDelta(t, 2.374402, candidates[0].Location.Lon, 1e-9)
		assert.InDelta(t, 0.97, candidates[0].Score, 1e-9)
		assert.InDelta(t, 0.61, candidates[1].Score, 1e-9)
	})

	t.Run("no match returns empty slice", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"type": "FeatureCollection", "features": []}`))
		}))
		defer server.Close()

		c := NewClient(testConfig(server.URL), logger)

		candidates, err := c.Lookup(context.Background(), "zzz nowhere")
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("feature without coordinates is skipped", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"features": [
					{"geometry": {"coordinates": []}, "properties": {"score": 0.9}},
					{"geometry": {"coordinates": [5.36, 43.29]}, "properties": {"score": 0.8}}
				]
			}`))
		}))
		defer server.Close()

		c := NewClient(testConfig(server.URL), logger)

		candidates, err := c.Lookup(context.Background(), "quai du port marseille")
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.InDelta(t, 43.29, candidates[0].Location.Lat, 1e-9)
	})

	t.Run("feature with out-of-range coordinates is skipped", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"features": [
					{"geometry": {"coordinates": [2.35, 548.85]}, "properties": {"score": 0.9}},
					{"geometry": {"coordinates": [2.35, 48.85]}, "properties": {"score": 0.8}}
				]
			}`))
		}))
		defer server.Close()

		c := NewClient(testConfig(server.URL), logger)

		candidates, err := c.Lookup(context.Background(), "1 rue de la paix paris")
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.InDelta(t, 48.85, candidates[0].Location.Lat, 1e-9)
	})

	t.Run("empty address", func(t *testing.T) {
		c := NewClient(testConfig("http://localhost"), logger)

		candidates, err := c.Lookup(context.Background(), "")
		assert.Error(t, err)
		assert.Nil(t, candidates)
	})

	t.Run("api error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"message": "rate limited"}`))
		}))
		defer server.Close()

		c := NewClient(testConfig(server.URL), logger)

		candidates, err := c.Lookup(context.Background(), "1 rue de la paix paris")
		assert.Error(t, err)
		assert.Nil(t, candidates)
		// A responding-but-failing provider is not "unreachable".
		assert.False(t, errors.Is(err, domain.ErrProviderUnreachable))
	})

	t.Run("malformed response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		c := NewClient(testConfig(server.URL), logger)

		candidates, err := c.Lookup(context.Background(), "1 rue de la paix paris")
		assert.Error(t, err)
		assert.Nil(t, candidates)
		assert.False(t, errors.Is(err, domain.ErrProviderUnreachable))
	})

	t.Run("connection failure is marked unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // nothing listens anymore

		c := NewClient(testConfig(server.URL), logger)

		candidates, err := c.Lookup(context.Background(), "1 rue de la paix paris")
		assert.Error(t, err)
		assert.Nil(t, candidates)
		assert.True(t, errors.Is(err, domain.ErrProviderUnreachable))
	})
}
