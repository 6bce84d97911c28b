// Package render produces the customer facing clarification pages from
// embedded HTML templates. The pages are deliberately plain: they are
// opened from chat apps on low-end phones.
package render

import (
	"embed"
	"html/template"
	"io"

	"github.com/chatcart/backend/internal/domain/clarify"
)

//go:embed templates/*.html
var files embed.FS

var pages = template.Must(template.ParseFS(files, "templates/*.html"))

// ClarifyPageData is the view model for the clarification form
type ClarifyPageData struct {
	Token         string
	Options       []clarify.Option
	Ask           clarify.AskFlags
	AllowFreeform bool
}

// ConfirmPageData is the view model for the post-submit confirmation
type ConfirmPageData struct {
	Label     string
	Brand     string
	Variant   string
	Duplicate bool
}

// ClarifyPage renders the option form for a verified token
func ClarifyPage(w io.Writer, data ClarifyPageData) error {
	return pages.ExecuteTemplate(w, "clarify.html", data)
}

// ConfirmPage renders the confirmation after a successful submission
func ConfirmPage(w io.Writer, data ConfirmPageData) error {
	return pages.ExecuteTemplate(w, "confirm.html", data)
}

// InvalidLinkPage renders the static notice for a bad or expired link
func InvalidLinkPage(w io.Writer) error {
	return pages.ExecuteTemplate(w, "invalid.html", nil)
}

// ErrorPageData is the view model for recoverable submission problems
type ErrorPageData struct {
	Message string
}

// ErrorPage renders a recoverable error with a way back to the form
func ErrorPage(w io.Writer, data ErrorPageData) error {
	return pages.ExecuteTemplate(w, "error.html", data)
}
