// Package render turns site data into HTML using the embedded theme
// templates. It provides the homepage renderer (hero banner plus the
// feature grid), the documentation page layout (navbar, sidebar,
// prev/next pagination), and the 404 page.
//
// Rendering is pure: the same input data always produces the same
// markup, and no renderer method touches the filesystem.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/markdown"
	"github.com/docsmith/docsmith/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageTemplates lists the page-level templates, each of which is parsed
// together with the base layout and shared partials.
var pageTemplates = []string{"home.html", "page.html", "404.html"}

// SiteView carries site-wide data available to every template.
type SiteView struct {
	Title      string
	Tagline    string
	BaseURL    string
	Language   string
	FooterText string
	Navbar     []types.NavLink
	Year       int
	LiveReload bool
}

// FeatureView is a FeatureItem prepared for the template: the
// description has been converted from inline Markdown to HTML.
type FeatureView struct {
	Title       string
	Icon        string
	Description template.HTML
}

// HomeView is the data for the generated homepage. Title stays empty so
// the browser tab shows the bare site title.
type HomeView struct {
	Site        SiteView
	Title       string
	Description string
	Hero        types.Hero
	Features    []FeatureView
}

// SidebarSection groups sidebar entries under a section heading.
type SidebarSection struct {
	Name  string
	Pages []SidebarItem
}

// SidebarItem is a single sidebar link.
type SidebarItem struct {
	Title  string
	URL    string
	Active bool
}

// PageLink is a prev/next pagination target.
type PageLink struct {
	Title string
	URL   string
}

// PageView is the data for a rendered documentation page.
type PageView struct {
	Site        SiteView
	Title       string
	Description string
	Content     template.HTML
	Sidebar     []SidebarSection
	Prev        *PageLink
	Next        *PageLink
}

// Renderer executes the embedded theme templates.
type Renderer struct {
	templates map[string]*template.Template
	converter *markdown.Converter
	site      SiteView
}

// New creates a Renderer from the embedded template set and the site
// configuration.
func New(cfg *config.Config) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template, len(pageTemplates)),
		converter: markdown.New(cfg.Theme.HighlightStyle),
		site: SiteView{
			Title:      cfg.Site.Title,
			Tagline:    cfg.Site.Tagline,
			BaseURL:    strings.TrimSuffix(cfg.Site.BaseURL, "/"),
			Language:   cfg.Site.Language,
			FooterText: cfg.Theme.FooterText,
			Navbar:     cfg.Theme.NavbarLinks,
			Year:       time.Now().Year(),
		},
	}

	for _, name := range pageTemplates {
		tmpl, err := template.New(name).ParseFS(templateFS,
			"templates/base.html",
			"templates/features.html",
			"templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return r, nil
}

// EnableLiveReload makes rendered pages include the live-reload client
// script. Used by the development server, never by production builds.
func (r *Renderer) EnableLiveReload() {
	r.site.LiveReload = true
}

// Site returns the site-wide view data.
func (r *Renderer) Site() SiteView {
	return r.site
}

// RenderHome renders the homepage (hero plus feature grid) to w.
func (r *Renderer) RenderHome(w io.Writer, hero types.Hero, features []types.FeatureItem) error {
	views, err := FeatureViews(r.converter, features)
	if err != nil {
		return err
	}
	return r.execute(w, "home.html", HomeView{
		Site:        r.site,
		Description: r.site.Tagline,
		Hero:        hero,
		Features:    views,
	})
}

// RenderPage renders a documentation page to w.
func (r *Renderer) RenderPage(w io.Writer, view PageView) error {
	view.Site = r.site
	return r.execute(w, "page.html", view)
}

// RenderNotFound renders the 404 page to w.
func (r *Renderer) RenderNotFound(w io.Writer) error {
	return r.execute(w, "404.html", PageView{
		Site:  r.site,
		Title: "Page Not Found",
	})
}

func (r *Renderer) execute(w io.Writer, name string, data interface{}) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("executing %s: %w", name, err)
	}
	return nil
}

// FeatureViews prepares feature items for the grid template, converting
// each description from inline Markdown to HTML with the given
// converter so descriptions share the site's highlight style. Input
// order is preserved; one view per item.
func FeatureViews(conv *markdown.Converter, items []types.FeatureItem) ([]FeatureView, error) {
	views := make([]FeatureView, 0, len(items))
	for _, item := range items {
		desc, err := conv.ToHTML([]byte(item.Description))
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", item.Title, err)
		}
		icon := item.Icon
		if !strings.HasPrefix(icon, "/") {
			// Icons are configured relative to the static dir but served
			// from the site root; anchor them so nested pages resolve them.
			icon = "/" + icon
		}
		views = append(views, FeatureView{
			Title:       item.Title,
			Icon:        icon,
			Description: template.HTML(desc),
		})
	}
	return views, nil
}

// FeatureGrid renders just the feature grid section for the given items
// and returns its markup. Exposed separately from RenderHome so the grid
// can be tested and reused as a standalone fragment.
func (r *Renderer) FeatureGrid(items []types.FeatureItem) (string, error) {
	views, err := FeatureViews(r.converter, items)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	tmpl := r.templates["home.html"]
	if err := tmpl.ExecuteTemplate(&b, "features", views); err != nil {
		return "", fmt.Errorf("executing feature grid: %w", err)
	}
	return b.String(), nil
}
