// Package orbgeom implements shape intersection on planar lng/lat
// coordinates using github.com/paulmach/orb.
package orbgeom

import (
	"github.com/couchcryptid/flood-area-check/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Intersector implements domain.Intersector. Shapes are treated as planar
// rings in degrees; boundaries count as inside, so touching shapes intersect.
type Intersector struct{}

// New returns an Intersector.
func New() *Intersector {
	return &Intersector{}
}

// Intersects reports whether a and b share at least one point. An empty
// shape intersects nothing.
func (Intersector) Intersects(a, b domain.Shape) bool {
	ra, rb := toRing(a.Points), toRing(b.Points)
	if len(ra) == 0 || len(rb) == 0 {
		return false
	}
	if !ra.Bound().Intersects(rb.Bound()) {
		return false
	}
	if containsAny(ra, rb) || containsAny(rb, ra) {
		return true
	}
	return edgesCross(ra, rb)
}

func toRing(points []domain.LatLng) orb.Ring {
	r := make(orb.Ring, len(points))
	for i, p := range points {
		r[i] = orb.Point{p.Lng, p.Lat}
	}
	return r
}

// containsAny reports whether any vertex of pts lies in or on outer. Rings
// with fewer than three points enclose no area.
func containsAny(outer, pts orb.Ring) bool {
	if len(outer) < 3 {
		return false
	}
	closed := closeRing(outer)
	for _, p := range pts {
		if planar.RingContains(closed, p) {
			return true
		}
	}
	return false
}

func edgesCross(a, b orb.Ring) bool {
	for _, ea := range edges(a) {
		for _, eb := range edges(b) {
			if segmentsIntersect(ea[0], ea[1], eb[0], eb[1]) {
				return true
			}
		}
	}
	return false
}

// edges lists the ring's segments including the closing edge. A single
// point is a zero-length segment.
func edges(r orb.Ring) [][2]orb.Point {
	if len(r) == 1 {
		return [][2]orb.Point{{r[0], r[0]}}
	}
	r = closeRing(r)
	out := make([][2]orb.Point, 0, len(r)-1)
	for i := 0; i < len(r)-1; i++ {
		out = append(out, [2]orb.Point{r[i], r[i+1]})
	}
	return out
}

// closeRing appends the first point when a ring of three or more points is
// left open. User-drawn polygons usually are.
func closeRing(r orb.Ring) orb.Ring {
	if len(r) < 3 || r[0].Equal(r[len(r)-1]) {
		return r
	}
	closed := make(orb.Ring, len(r), len(r)+1)
	copy(closed, r)
	return append(closed, r[0])
}

// segmentsIntersect is the orientation test, with collinear overlap and
// endpoint contact counted as intersection.
func segmentsIntersect(p1, p2, p3, p4 orb.Point) bool {
	d1 := orientation(p3, p4, p1)
	d2 := orientation(p3, p4, p2)
	d3 := orientation(p1, p2, p3)
	d4 := orientation(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	switch {
	case d1 == 0 && onSegment(p3, p4, p1):
		return true
	case d2 == 0 && onSegment(p3, p4, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, p3):
		return true
	case d4 == 0 && onSegment(p1, p2, p4):
		return true
	}
	return false
}

func orientation(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// onSegment reports whether c, known to be collinear with a-b, lies within
// the segment's bounding box.
func onSegment(a, b, c orb.Point) bool {
	return min(a[0], b[0]) <= c[0] && c[0] <= max(a[0], b[0]) &&
		min(a[1], b[1]) <= c[1] && c[1] <= max(a[1], b[1])
}
