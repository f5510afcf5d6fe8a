package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/flood-area-check/internal/domain"
	"github.com/couchcryptid/flood-area-check/internal/observability"
)

// DefaultBaseURL is the Mapbox Geocoding v5 places endpoint.
const DefaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client. An empty baseURL uses
// DefaultBaseURL.
func NewClient(token string, timeout time.Duration, baseURL string, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode resolves a free-text query to its best match. No match is an empty
// slice.
func (c *Client) Geocode(ctx context.Context, query string) ([]domain.GeocodeResult, error) {
	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(query))
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
	}

	resp, err := c.doRequest(ctx, u+"?"+params.Encode(), "forward")
	if err != nil {
		return nil, err
	}

	results := make([]domain.GeocodeResult, 0, len(resp.Features))
	for _, f := range resp.Features {
		results = append(results, toResult(f))
	}
	return results, nil
}

// ReverseGeocode describes the most specific feature at a coordinate.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (domain.GeocodeResult, error) {
	// Mapbox uses lon,lat order. Reverse lookups reject limit without a
	// single type, so take the first (most specific) feature instead.
	coord := fmt.Sprintf("%.6f,%.6f", lng, lat)
	u := fmt.Sprintf("%s/%s.json", c.baseURL, coord)
	params := url.Values{
		"access_token": {c.token},
	}

	resp, err := c.doRequest(ctx, u+"?"+params.Encode(), "reverse")
	if err != nil {
		return domain.GeocodeResult{}, err
	}
	if len(resp.Features) == 0 {
		return domain.GeocodeResult{}, nil
	}
	return toResult(resp.Features[0]), nil
}

func (c *Client) doRequest(ctx context.Context, fullURL, method string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		return response{}, fmt.Errorf("%s geocode request: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return response{}, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		return response{}, fmt.Errorf("decode response: %w", err)
	}

	if len(mapboxResp.Features) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues(method, "empty").Inc()
		c.logger.Debug("geocode returned no features", "method", method)
		return mapboxResp, nil
	}
	c.metrics.GeocodeRequests.WithLabelValues(method, "success").Inc()
	return mapboxResp, nil
}

// toResult maps a Mapbox feature onto the provider-neutral result. The
// feature's own id is treated like a context entry so that a country or
// region match describes itself.
func toResult(f feature) domain.GeocodeResult {
	addr := &domain.Address{FormattedAddress: f.PlaceName}

	entries := append([]contextEntry{{ID: f.ID, Text: f.Text, ShortCode: f.Properties.ShortCode}}, f.Context...)
	for _, e := range entries {
		kind, _, _ := strings.Cut(e.ID, ".")
		switch kind {
		case "country":
			if addr.CountryRegion == "" {
				addr.CountryRegion = e.Text
				addr.CountryRegionISO2 = strings.ToUpper(e.ShortCode)
			}
		case "region":
			if addr.AdminDistrict == "" {
				addr.AdminDistrict = e.Text
			}
		case "district":
			if addr.Subdivision == "" {
				addr.Subdivision = e.Text
			}
		}
	}

	return domain.GeocodeResult{
		Name:     f.Text,
		Address:  addr,
		BestView: bestView(f),
	}
}

// bestView prefers the feature bbox. Point features (addresses, POIs) have
// none and get a small box around their center.
func bestView(f feature) *domain.View {
	if len(f.BBox) == 4 {
		minLng, minLat, maxLng, maxLat := f.BBox[0], f.BBox[1], f.BBox[2], f.BBox[3]
		return &domain.View{
			Center: domain.LatLng{Lat: (minLat + maxLat) / 2, Lng: (minLng + maxLng) / 2},
			Width:  maxLng - minLng,
			Height: maxLat - minLat,
		}
	}
	if len(f.Center) == 2 {
		return &domain.View{
			Center: domain.LatLng{Lat: f.Center[1], Lng: f.Center[0]},
			Width:  2 * domain.LocateDelta,
			Height: 2 * domain.LocateDelta,
		}
	}
	return nil
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string         `json:"id"`
	Center     []float64      `json:"center"` // [lon, lat]
	BBox       []float64      `json:"bbox"`   // [minLon, minLat, maxLon, maxLat]
	PlaceName  string         `json:"place_name"`
	Text       string         `json:"text"`
	Properties properties     `json:"properties"`
	Context    []contextEntry `json:"context"`
}

type properties struct {
	ShortCode string `json:"short_code"`
}

type contextEntry struct {
	ID        string `json:"id"` // e.g. "region.9764"
	Text      string `json:"text"`
	ShortCode string `json:"short_code"`
}
