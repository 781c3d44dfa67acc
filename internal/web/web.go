// Package web renders the single-page browser form.
package web

import (
	"embed"
	"html/template"
	"io"

	"github.com/arturoeanton/codeguard/internal/domain"
)

//go:embed templates/*.html
var files embed.FS

var page = template.Must(template.ParseFS(files, "templates/index.html"))

// Page is everything the form template needs.
type Page struct {
	AppName   string
	Online    bool
	Model     string
	Served    int
	Languages []string
	Selected  string
	Code      string
	Outcome   *domain.AuditOutcome
	Message   string
}

// Render writes the page to w.
func Render(w io.Writer, p Page) error {
	return page.ExecuteTemplate(w, "index.html", p)
}
