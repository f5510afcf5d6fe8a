package domain

import "math"

// LocateDelta is the half-width in degrees of the box drawn around a
// device location.
const LocateDelta = 0.01

// LatLng is a WGS-84 point in (lat, lng) order, the order map shapes use.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BoundingBox is [minLng, minLat, maxLng, maxLat]. Min/max ordering is not
// enforced; a reversed or zero-area box builds a degenerate shape.
type BoundingBox [4]float64

func (b BoundingBox) MinLng() float64 { return b[0] }
func (b BoundingBox) MinLat() float64 { return b[1] }
func (b BoundingBox) MaxLng() float64 { return b[2] }
func (b BoundingBox) MaxLat() float64 { return b[3] }

// Corners returns the closed five-point ring of the box, starting and ending
// at (minLat, minLng) and running through (minLat, maxLng), (maxLat, maxLng)
// and (maxLat, minLng).
func (b BoundingBox) Corners() []LatLng {
	return []LatLng{
		{Lat: b.MinLat(), Lng: b.MinLng()},
		{Lat: b.MinLat(), Lng: b.MaxLng()},
		{Lat: b.MaxLat(), Lng: b.MaxLng()},
		{Lat: b.MaxLat(), Lng: b.MinLng()},
		{Lat: b.MinLat(), Lng: b.MinLng()},
	}
}

// PolygonPoints is an ordered sequence of [lng, lat] pairs as typed by the user.
type PolygonPoints [][2]float64

// BuildPolygon swaps each [lng, lat] pair into (lat, lng) order. The ring is
// not closed and short sequences are returned as-is.
func BuildPolygon(points PolygonPoints) []LatLng {
	out := make([]LatLng, len(points))
	for i, p := range points {
		out[i] = LatLng{Lat: p[1], Lng: p[0]}
	}
	return out
}

// View is a provider's suggested viewport: a center and its extent in degrees.
type View struct {
	Center LatLng  `json:"center"`
	Width  float64 `json:"width"`  // degrees of longitude
	Height float64 `json:"height"` // degrees of latitude
}

// BoundingBoxFromView converts a viewport into a bounding box.
func BoundingBoxFromView(v View) BoundingBox {
	return BoundingBox{
		v.Center.Lng - v.Width/2,
		v.Center.Lat - v.Height/2,
		v.Center.Lng + v.Width/2,
		v.Center.Lat + v.Height/2,
	}
}

// BoundingBoxAround returns a box extending delta degrees from p on each side.
func BoundingBoxAround(p LatLng, delta float64) BoundingBox {
	return BoundingBox{p.Lng - delta, p.Lat - delta, p.Lng + delta, p.Lat + delta}
}

// ShapeKind distinguishes the two shapes a session can draw.
type ShapeKind string

const (
	ShapeBoundingBox ShapeKind = "bbox"
	ShapePolygon     ShapeKind = "polygon"
)

// Shape is a drawable point sequence in (lat, lng) order.
type Shape struct {
	Kind   ShapeKind `json:"kind"`
	Points []LatLng  `json:"points"`
}

// Bounds is an axis-aligned rectangle in (lat, lng) terms.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// FitBounds returns the smallest rectangle enclosing every point of every
// sequence. It reports false when there are no points.
func FitBounds(sequences ...[]LatLng) (Bounds, bool) {
	b := Bounds{
		South: math.Inf(1),
		West:  math.Inf(1),
		North: math.Inf(-1),
		East:  math.Inf(-1),
	}
	found := false
	for _, seq := range sequences {
		for _, p := range seq {
			b.South = math.Min(b.South, p.Lat)
			b.North = math.Max(b.North, p.Lat)
			b.West = math.Min(b.West, p.Lng)
			b.East = math.Max(b.East, p.Lng)
			found = true
		}
	}
	if !found {
		return Bounds{}, false
	}
	return b, true
}
