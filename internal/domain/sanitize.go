package domain

import (
	"regexp"
	"strings"
)

// DefaultMaxTextLength is the cap applied by SanitizeText.
const DefaultMaxTextLength = 200

var (
	// disallowedTextRe matches every character outside the search-text
	// allowlist: ASCII letters, digits, space and - , . ( ) _ / \ ! [ ] # @ :
	disallowedTextRe = regexp.MustCompile(`[^A-Za-z0-9 \-,.()_/\\!\[\]#@:]`)

	multiSpaceRe = regexp.MustCompile(`\s{2,}`)

	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#039;",
	)
)

// SanitizeText cleans free text with the default length cap.
func SanitizeText(value string) string {
	return SanitizeTextMax(value, DefaultMaxTextLength)
}

// SanitizeOptional is SanitizeTextMax for values that may be missing.
// A nil value yields "".
func SanitizeOptional(value *string, maxLength int) string {
	if value == nil {
		return ""
	}
	return SanitizeTextMax(*value, maxLength)
}

// SanitizeTextMax trims value, deletes characters outside the allowlist,
// collapses repeated whitespace and truncates to maxLength characters.
// Disallowed characters are removed, not escaped. A maxLength of zero or
// less yields "".
func SanitizeTextMax(value string, maxLength int) string {
	if value == "" {
		return ""
	}
	s := strings.TrimSpace(value)
	s = disallowedTextRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")

	if maxLength <= 0 {
		return ""
	}
	// Only ASCII survives the allowlist, so bytes and characters agree.
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	return s
}

// EscapeHTML neutralizes & < > " ' for interpolation into HTML.
// It is not idempotent: escaping twice turns &amp; into &amp;amp;.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}
