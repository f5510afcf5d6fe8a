package http

import (
	"fmt"

	"github.com/couchcryptid/flood-area-check/internal/domain"
)

// RenderErrorSummary renders a GOV.UK error summary for message. With a
// target field id the message links to that field; otherwise it is a plain
// paragraph. Both values are HTML-escaped.
func RenderErrorSummary(message, target string) string {
	msg := domain.EscapeHTML(message)

	body := fmt.Sprintf(`<p>%s</p>`, msg)
	if target != "" {
		body = fmt.Sprintf(`<ul class="govuk-list govuk-error-summary__list"><li><a href="#%s" class="govuk-link">%s</a></li></ul>`,
			domain.EscapeHTML(target), msg)
	}

	return `<div class="govuk-error-summary" aria-labelledby="error-summary-title" role="alert" tabindex="-1">` +
		`<h2 class="govuk-error-summary__title" id="error-summary-title">There is a problem</h2>` +
		`<div class="govuk-error-summary__body">` + body + `</div>` +
		`</div>`
}
