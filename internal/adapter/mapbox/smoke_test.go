//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/flood-area-check/internal/domain"
	"github.com/couchcryptid/flood-area-check/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultBaseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_Geocode_England(t *testing.T) {
	c := smokeClient(t)

	results, err := c.Geocode(context.Background(), "Manchester")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	r := results[0]
	require.NotNil(t, r.BestView)
	assert.InDelta(t, 53.48, r.BestView.Center.Lat, 0.3, "lat should be near Manchester")
	assert.InDelta(t, -2.24, r.BestView.Center.Lng, 0.3, "lng should be near Manchester")
	assert.Equal(t, "GB", r.Address.CountryRegionISO2)
	assert.True(t, domain.IsInEngland(&r))
}

func TestSmoke_Geocode_Scotland(t *testing.T) {
	c := smokeClient(t)

	results, err := c.Geocode(context.Background(), "Edinburgh")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.False(t, domain.IsInEngland(&results[0]))
}

func TestSmoke_ReverseGeocode(t *testing.T) {
	c := smokeClient(t)

	// Leeds city centre
	result, err := c.ReverseGeocode(context.Background(), 53.7997, -1.5492)
	require.NoError(t, err)

	require.NotNil(t, result.Address)
	assert.NotEmpty(t, result.DisplayName())
	assert.True(t, domain.IsInEngland(&result))
}

func TestSmoke_Geocode_Nonsense(t *testing.T) {
	c := smokeClient(t)

	// Mapbox's fuzzy matching may still return results for nonsense queries,
	// so we verify the client handles any response gracefully (no error).
	_, err := c.Geocode(context.Background(), "XYZNONEXISTENT99")
	require.NoError(t, err)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())

	// First call: cache miss, real API call.
	r1, err := cached.Geocode(context.Background(), "Bristol")
	require.NoError(t, err)
	require.NotEmpty(t, r1)
	assert.Contains(t, r1[0].Address.FormattedAddress, "Bristol")

	// Second call: cache hit, no API call.
	r2, err := cached.Geocode(context.Background(), "Bristol")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
