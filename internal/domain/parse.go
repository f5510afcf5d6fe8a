package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// errNotString is the diagnostic ParseJSON returns for non-string input.
const errNotString = "Input is not a string"

// Result is the outcome of a parse: either OK with a Value, or not OK with
// a non-empty Err diagnostic.
type Result[T any] struct {
	OK    bool
	Value T
	Err   string
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{OK: true, Value: v}
}

// Fail wraps a diagnostic. An empty message is replaced so callers can rely
// on Err being non-empty whenever OK is false.
func Fail[T any](msg string) Result[T] {
	if msg == "" {
		msg = "invalid input"
	}
	return Result[T]{Err: msg}
}

// ParseJSON decodes text as JSON. Numbers decode as float64, objects as
// map[string]any and arrays as []any, as with json.Unmarshal into any.
func ParseJSON(text any) Result[any] {
	s, ok := text.(string)
	if !ok {
		return Fail[any](errNotString)
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return Fail[any](err.Error())
	}
	return Ok(v)
}

// ParseBoundingBox decodes a bounding-box field: a JSON array of exactly four
// numbers [minLng, minLat, maxLng, maxLat]. Ordering of min and max is not
// checked.
func ParseBoundingBox(text string) Result[BoundingBox] {
	r := ParseJSON(strings.TrimSpace(text))
	if !r.OK {
		return Fail[BoundingBox](r.Err)
	}
	arr, ok := r.Value.([]any)
	if !ok {
		return Fail[BoundingBox]("bounding box must be a JSON array")
	}
	if len(arr) != 4 {
		return Fail[BoundingBox](fmt.Sprintf("bounding box must have exactly 4 numbers, got %d", len(arr)))
	}
	var box BoundingBox
	for i, v := range arr {
		n, ok := v.(float64)
		if !ok {
			return Fail[BoundingBox](fmt.Sprintf("bounding box entry %d is not a number", i))
		}
		box[i] = n
	}
	return Ok(box)
}

// ParsePolygon decodes a polygon field: a JSON array of [lng, lat] pairs.
// Positions with more than two numbers keep the first two. Fewer than three
// points is accepted.
func ParsePolygon(text string) Result[PolygonPoints] {
	r := ParseJSON(strings.TrimSpace(text))
	if !r.OK {
		return Fail[PolygonPoints](r.Err)
	}
	arr, ok := r.Value.([]any)
	if !ok {
		return Fail[PolygonPoints]("polygon must be a JSON array of [lng, lat] pairs")
	}
	points := make(PolygonPoints, 0, len(arr))
	for i, v := range arr {
		pair, ok := v.([]any)
		if !ok || len(pair) < 2 {
			return Fail[PolygonPoints](fmt.Sprintf("polygon point %d must be a [lng, lat] pair", i))
		}
		lng, okLng := pair[0].(float64)
		lat, okLat := pair[1].(float64)
		if !okLng || !okLat {
			return Fail[PolygonPoints](fmt.Sprintf("polygon point %d is not numeric", i))
		}
		points = append(points, [2]float64{lng, lat})
	}
	return Ok(points)
}
