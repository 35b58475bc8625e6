package httpserver

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/Clark-Hu/game-reviews/internal/domain"
)

// View names understood by Renderer.
const (
	viewHome        = "home"
	viewRegister    = "register"
	viewSearch      = "search"
	viewGameDetails = "game-details"
	viewNotFound    = "error/404"
)

// Renderer turns a named view and its data into HTML.
type Renderer interface {
	Render(w io.Writer, view string, data interface{}) error
}

type authPage struct {
	Error string
}

type searchPage struct {
	Games []domain.VideoGame
}

type gameDetailsPage struct {
	Game         domain.VideoGame
	IsGuest      bool
	UserReview   *domain.Review
	ReviewStatus string
}

//go:embed templates
var templateFS embed.FS

// TemplateRenderer renders the embedded html/template views.
type TemplateRenderer struct {
	views map[string]*template.Template
}

// NewTemplateRenderer parses every embedded view. Each file becomes a view
// named after its path below templates/, without the extension.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	root, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	views := make(map[string]*template.Template)
	err = fs.WalkDir(root, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".html") {
			return err
		}
		tmpl, err := template.ParseFS(root, path)
		if err != nil {
			return fmt.Errorf("parse view %s: %w", path, err)
		}
		views[strings.TrimSuffix(path, ".html")] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{views: views}, nil
}

// Render executes the named view.
func (r *TemplateRenderer) Render(w io.Writer, view string, data interface{}) error {
	tmpl, ok := r.views[view]
	if !ok {
		return fmt.Errorf("unknown view %q", view)
	}
	return tmpl.Execute(w, data)
}
