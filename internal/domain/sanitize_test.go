package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "London", "London"},
		{"trims", "   Bath   ", "Bath"},
		{"strips disallowed and collapses", ` Paris!!! <> /\ -- `, `Paris!!! /\ --`},
		{"keeps allowlisted punctuation", `a-b,c.d(e)_f/g\h!i[j]#k@l:m`, `a-b,c.d(e)_f/g\h!i[j]#k@l:m`},
		{"removes script tags", "<script>alert('x')</script>", "scriptalert(x)/script"},
		{"removes non-ascii", "Mü nchen", "M nchen"},
		{"collapses inner whitespace", "New    York", "New York"},
		{"tab is not allowlisted", "a\tb", "ab"},
		{"only disallowed", "<<>>", ""},
		{"whitespace only", "     ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.input))
		})
	}
}

func TestSanitizeTextMax(t *testing.T) {
	t.Run("truncates to max length", func(t *testing.T) {
		assert.Equal(t, "abcde", SanitizeTextMax("abcdefghij", 5))
	})

	t.Run("default cap", func(t *testing.T) {
		got := SanitizeText(strings.Repeat("a", 250))
		assert.Len(t, got, DefaultMaxTextLength)
	})

	t.Run("zero or negative max yields empty", func(t *testing.T) {
		assert.Equal(t, "", SanitizeTextMax("London", 0))
		assert.Equal(t, "", SanitizeTextMax("London", -3))
	})

	t.Run("truncation may leave a trailing space", func(t *testing.T) {
		assert.Equal(t, "ab ", SanitizeTextMax("ab cd", 3))
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, in := range []string{` Paris!!! <> /\ -- `, "a  b  c", "Zoë's café"} {
			once := SanitizeText(in)
			assert.Equal(t, once, SanitizeText(once), "input %q", in)
		}
	})
}

func TestSanitizeOptional(t *testing.T) {
	assert.Equal(t, "", SanitizeOptional(nil, 10))

	v := "  Leeds  "
	assert.Equal(t, "Leeds", SanitizeOptional(&v, 10))
}

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{`<a href="x">Tom & Jerry's</a>`, "&lt;a href=&quot;x&quot;&gt;Tom &amp; Jerry&#039;s&lt;/a&gt;"},
		{"&amp;", "&amp;amp;"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeHTML(tt.input))
		})
	}
}
