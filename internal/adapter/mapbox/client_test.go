package mapbox

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/flood-area-check/internal/domain"
	"github.com/couchcryptid/flood-area-check/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken         = "test-token"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *Client {
	return &Client{
		token:      testToken,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func serveFeatures(t *testing.T, features ...feature) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{Features: features}))
	}))
	t.Cleanup(srv.Close)
	return srv
}

var londonFeature = feature{
	ID:        "place.123",
	Center:    []float64{-0.1276, 51.5072},
	BBox:      []float64{-0.5104, 51.2868, 0.334, 51.6919},
	PlaceName: "London, Greater London, England, United Kingdom",
	Text:      "London",
	Context: []contextEntry{
		{ID: "district.1", Text: "Greater London"},
		{ID: "region.2", Text: "England", ShortCode: "GB-ENG"},
		{ID: "country.3", Text: "United Kingdom", ShortCode: "gb"},
	},
}

func TestClient_Geocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "London")
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))

		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{Features: []feature{londonFeature}}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	results, err := c.Geocode(context.Background(), "London")
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "London", r.Name)
	require.NotNil(t, r.Address)
	assert.Equal(t, domain.Address{
		FormattedAddress:  "London, Greater London, England, United Kingdom",
		CountryRegionISO2: "GB",
		CountryRegion:     "United Kingdom",
		AdminDistrict:     "England",
		Subdivision:       "Greater London",
	}, *r.Address)

	require.NotNil(t, r.BestView)
	assert.InDelta(t, 51.48935, r.BestView.Center.Lat, 1e-9)
	assert.InDelta(t, -0.0882, r.BestView.Center.Lng, 1e-9)
	assert.InDelta(t, 0.8444, r.BestView.Width, 1e-9)
	assert.InDelta(t, 0.4051, r.BestView.Height, 1e-9)

	assert.True(t, domain.IsInEngland(&r))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("forward", "success")))
}

func TestClient_Geocode_QueryIsPathEscaped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Newcastle upon Tyne/1.json", r.URL.Path)
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{}))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Geocode(context.Background(), "Newcastle upon Tyne/1")
	require.NoError(t, err)
}

func TestClient_Geocode_CountryFeatureDescribesItself(t *testing.T) {
	srv := serveFeatures(t, feature{
		ID:         "country.99",
		Center:     []float64{2.2, 46.6},
		BBox:       []float64{-5.1, 41.3, 9.6, 51.1},
		PlaceName:  "France",
		Text:       "France",
		Properties: properties{ShortCode: "fr"},
	})

	results, err := testClient(srv.URL).Geocode(context.Background(), "France")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "FR", results[0].Address.CountryRegionISO2)
	assert.Equal(t, "France", results[0].Address.CountryRegion)
	assert.False(t, domain.IsInEngland(&results[0]))
}

func TestClient_Geocode_PointFeatureGetsSmallView(t *testing.T) {
	srv := serveFeatures(t, feature{
		ID:        "address.1",
		Center:    []float64{-1.5, 53.8},
		PlaceName: "1 Park Row, Leeds, England",
		Text:      "Park Row",
	})

	results, err := testClient(srv.URL).Geocode(context.Background(), "1 Park Row")
	require.NoError(t, err)
	require.NotNil(t, results[0].BestView)
	assert.Equal(t, domain.LatLng{Lat: 53.8, Lng: -1.5}, results[0].BestView.Center)
	assert.Equal(t, 2*domain.LocateDelta, results[0].BestView.Width)
}

func TestClient_Geocode_NoResults(t *testing.T) {
	srv := serveFeatures(t)

	c := testClient(srv.URL)
	results, err := c.Geocode(context.Background(), "NONEXISTENT")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("forward", "empty")))
}

func TestClient_ReverseGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/-0.127600,51.507200.json", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("limit"))
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{Features: []feature{londonFeature}}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.ReverseGeocode(context.Background(), 51.5072, -0.1276)
	require.NoError(t, err)

	assert.Equal(t, "London", result.DisplayName())
	assert.Equal(t, "England", result.Address.AdminDistrict)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("reverse", "success")))
}

func TestClient_ReverseGeocode_NoResults(t *testing.T) {
	srv := serveFeatures(t)

	result, err := testClient(srv.URL).ReverseGeocode(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Nil(t, result.Address)
}

func TestClient_Geocode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()

	c := &Client{
		token:      "bad-token",
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    srv.URL,
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	_, err := c.Geocode(context.Background(), "London")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.GeocodeRequests.WithLabelValues("forward", "error")))
}

func TestClient_Geocode_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"features": [`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Geocode(context.Background(), "London")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Geocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := &Client{
		token:      testToken,
		httpClient: &http.Client{Timeout: 50 * time.Millisecond},
		baseURL:    srv.URL,
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	_, err := c.Geocode(context.Background(), "London")
	require.Error(t, err)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient(testToken, time.Second, "", testMetrics(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, DefaultBaseURL, c.baseURL)

	c = NewClient(testToken, time.Second, "http://localhost:9000/", testMetrics(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, "http://localhost:9000", c.baseURL)
}
