package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	pageLanding  = "landing"
	pageListing  = "listing"
	pageCart     = "cart"
	pageNotFound = "not_found"
)

// Renderer executes the page templates. Templates are parsed once at construction.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	base, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{pageLanding, pageListing, pageCart, pageNotFound} {
		layout, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		page, err := layout.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = page
	}

	return r, nil
}

func (r *Renderer) Landing(w io.Writer, data Landing) error {
	return r.render(w, pageLanding, data)
}

func (r *Renderer) Listing(w io.Writer, data Listing) error {
	return r.render(w, pageListing, data)
}

func (r *Renderer) Cart(w io.Writer, data CartPage) error {
	return r.render(w, pageCart, data)
}

func (r *Renderer) NotFound(w io.Writer, data Landing) error {
	return r.render(w, pageNotFound, data)
}

func (r *Renderer) render(w io.Writer, name string, data any) error {
	if err := r.pages[name].ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// Static returns the embedded stylesheet tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
