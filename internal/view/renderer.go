// Package view renders the server-side HTML pages. Templates are embedded
// into the binary and exposed to Echo through its Renderer interface.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-directory/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer implements echo.Renderer over one parsed template set. Every
// page file defines a template named after itself; shared chrome lives in
// partials.html.
type Renderer struct {
	templates *template.Template
}

// New parses the embedded template files. Parse failures are programmer
// errors and surface at startup, not per request.
func New() (*Renderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"add":      func(a, b int) int { return a + b },
		"gravatar": func(email string) string { return utils.GravatarURL(email, 200) },
		"stars": func(rating any) string {
			var f float64
			switch v := rating.(type) {
			case int:
				f = float64(v)
			case int64:
				f = float64(v)
			case float64:
				f = v
			}
			n := int(f + 0.5)
			if n < 0 {
				n = 0
			} else if n > 5 {
				n = 5
			}
			return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
		},
		"staticMap": func(lng, lat float64) string {
			return fmt.Sprintf("https://maps.googleapis.com/maps/api/staticmap?center=%f,%f&zoom=14&size=800x150&markers=%f,%f",
				lat, lng, lat, lng)
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render writes the named page template. Echo calls this for every
// c.Render invocation.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
