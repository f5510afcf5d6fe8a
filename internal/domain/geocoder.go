package domain

import (
	"context"
	"errors"
)

// Address is the address metadata a geocoder attaches to a result.
// An empty string means the provider did not supply the field.
type Address struct {
	FormattedAddress  string `json:"formattedAddress,omitempty"`
	CountryRegionISO2 string `json:"countryRegionIso2,omitempty"`
	CountryRegion     string `json:"countryRegion,omitempty"`
	AdminDistrict     string `json:"adminDistrict,omitempty"`
	Subdivision       string `json:"subdivision,omitempty"`
}

// GeocodeResult is one forward or reverse geocoding match.
type GeocodeResult struct {
	Name     string   `json:"name,omitempty"`
	Address  *Address `json:"address,omitempty"`
	BestView *View    `json:"bestView,omitempty"`
}

// DisplayName is the text shown for a located place: the result name, else
// the formatted address.
func (r GeocodeResult) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	if r.Address != nil {
		return r.Address.FormattedAddress
	}
	return ""
}

// Geocoder resolves place names and coordinates through a map provider.
type Geocoder interface {
	// Geocode returns matches for a free-text query, best first. No matches
	// is an empty slice and a nil error.
	Geocode(ctx context.Context, query string) ([]GeocodeResult, error)

	// ReverseGeocode describes the place at a coordinate. A result with a nil
	// Address means the provider had nothing for that point.
	ReverseGeocode(ctx context.Context, lat, lng float64) (GeocodeResult, error)
}

// Intersector tests whether two shapes overlap. Touching counts as overlap.
type Intersector interface {
	Intersects(a, b Shape) bool
}

var (
	// ErrGeolocationUnsupported means the client has no geolocation capability.
	ErrGeolocationUnsupported = errors.New("geolocation is not supported")

	// ErrLocationUnavailable means geolocation was denied or failed.
	ErrLocationUnavailable = errors.New("location unavailable")
)

// Locator reports the device's current position.
type Locator interface {
	Locate(ctx context.Context) (LatLng, error)
}

// FixedLocator is a Locator whose answer was obtained elsewhere, typically
// by the browser before the request reached the server.
type FixedLocator struct {
	Point LatLng
	Err   error
}

func (l FixedLocator) Locate(_ context.Context) (LatLng, error) {
	if l.Err != nil {
		return LatLng{}, l.Err
	}
	return l.Point, nil
}
