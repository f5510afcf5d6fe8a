package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		r := ParseJSON(`{"a":1}`)
		require.True(t, r.OK)
		assert.Equal(t, map[string]any{"a": 1.0}, r.Value)
		assert.Empty(t, r.Err)
	})

	t.Run("array", func(t *testing.T) {
		r := ParseJSON(`[1, "two", null]`)
		require.True(t, r.OK)
		assert.Equal(t, []any{1.0, "two", nil}, r.Value)
	})

	t.Run("malformed", func(t *testing.T) {
		r := ParseJSON(`{a:1`)
		assert.False(t, r.OK)
		assert.NotEmpty(t, r.Err)
	})

	t.Run("empty string", func(t *testing.T) {
		r := ParseJSON("")
		assert.False(t, r.OK)
		assert.NotEmpty(t, r.Err)
	})

	t.Run("non-string input", func(t *testing.T) {
		r := ParseJSON(42)
		assert.False(t, r.OK)
		assert.Equal(t, "Input is not a string", r.Err)

		r = ParseJSON(nil)
		assert.Equal(t, "Input is not a string", r.Err)
	})
}

func TestFail_EmptyMessage(t *testing.T) {
	r := Fail[int]("")
	assert.False(t, r.OK)
	assert.NotEmpty(t, r.Err)
}

func TestParseBoundingBox(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r := ParseBoundingBox(" [-1, 50, 1, 52] ")
		require.True(t, r.OK, r.Err)
		assert.Equal(t, BoundingBox{-1, 50, 1, 52}, r.Value)
	})

	t.Run("indented field", func(t *testing.T) {
		r := ParseBoundingBox("[\n  -0.2,\n  51.45,\n  0,\n  51.55\n]")
		require.True(t, r.OK, r.Err)
		assert.Equal(t, 51.55, r.Value.MaxLat())
	})

	t.Run("reversed order accepted", func(t *testing.T) {
		r := ParseBoundingBox("[1, 52, -1, 50]")
		assert.True(t, r.OK)
	})

	bad := map[string]string{
		"three numbers": "[1, 2, 3]",
		"five numbers":  "[1, 2, 3, 4, 5]",
		"object":        `{"minLng": 1}`,
		"string entry":  `[1, "2", 3, 4]`,
		"malformed":     "[1, 2, 3,",
	}
	for name, in := range bad {
		t.Run(name, func(t *testing.T) {
			r := ParseBoundingBox(in)
			assert.False(t, r.OK)
			assert.NotEmpty(t, r.Err)
		})
	}
}

func TestParsePolygon(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r := ParsePolygon(`[[-0.2,51.4],[0.1,51.4],[0.1,51.6]]`)
		require.True(t, r.OK, r.Err)
		want := PolygonPoints{{-0.2, 51.4}, {0.1, 51.4}, {0.1, 51.6}}
		if diff := cmp.Diff(want, r.Value); diff != "" {
			t.Fatalf("points mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("extra coordinates dropped", func(t *testing.T) {
		r := ParsePolygon(`[[1,2,100]]`)
		require.True(t, r.OK)
		assert.Equal(t, PolygonPoints{{1, 2}}, r.Value)
	})

	t.Run("empty array", func(t *testing.T) {
		r := ParsePolygon(`[]`)
		require.True(t, r.OK)
		assert.Empty(t, r.Value)
	})

	bad := map[string]string{
		"flat array":   `[1, 2, 3]`,
		"short pair":   `[[1]]`,
		"non-numeric":  `[[1, "a"]]`,
		"truncated":    `[[0,51],[1,`,
		"not an array": `{"type":"Polygon"}`,
	}
	for name, in := range bad {
		t.Run(name, func(t *testing.T) {
			r := ParsePolygon(in)
			assert.False(t, r.OK)
			assert.NotEmpty(t, r.Err)
		})
	}
}
