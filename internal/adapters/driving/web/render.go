package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names.
const (
	pageIndex   = "index.html"
	pageResults = "results.html"
	pageAbout   = "about.html"
	pageMissing = "missing.html"
)

var templateFuncs = template.FuncMap{
	"risk": domain.FormatRisk,
	"stat": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"inc":  func(i int) int { return i + 1 },
}

// renderer executes one page template inside the shared layout.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	r := &renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{pageIndex, pageResults, pageAbout, pageMissing} {
		t, err := template.New(page).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Render implements echo.Renderer.
func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
