// Package domain holds the decision logic for checking an area of interest
// against a comparison polygon, restricted to places in England.
//
// # Untrusted input
//
// Three kinds of input reach this package from outside the process:
//
//	free text      search queries typed by the user
//	geocoder data  address and view metadata returned by the map provider
//	coordinates    bounding-box and polygon arrays typed as JSON
//
// Free text goes through [SanitizeText] before it is sent to the geocoder.
// Anything rendered back into HTML goes through [EscapeHTML] exactly once,
// at render time. JSON fields are decoded with [ParseJSON] and its typed
// wrappers, which report failure through [Result] instead of an error.
//
// # Region classification
//
// Geocoders rarely label a place as being in England; England is the
// unmarked default of the UK constituent countries. [IsInEngland] is a
// priority-ordered rule chain:
//
//	1. no result or no address          → reject
//	2. formatted address says England    → accept
//	3. ISO country code present, not GB  → reject
//	4. country name present, not UK      → reject
//	5. admin district says England       → accept
//	6. Scotland / Wales / Northern Ireland / NI mentioned → reject
//	7. otherwise                         → accept
//
// Matches are case-insensitive whole words, so "NI" inside "Nine Elms" is
// not a match. Boundary addresses can still be misclassified.
//
// # Coordinate order
//
// User input and bounding boxes are [lng, lat]. Shapes handed to the map and
// to the [Intersector] are (lat, lng). [BuildPolygon] and [BoundingBox.Corners]
// do the swap; nothing else should.
package domain
