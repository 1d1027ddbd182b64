// Package build implements static site generation: it scans the content
// directory, validates asset references, renders every page through the
// theme, and writes the final HTML tree together with static assets,
// sitemap.xml, robots.txt, and the 404 page.
package build

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/errors"
	"github.com/docsmith/docsmith/internal/logging"
	"github.com/docsmith/docsmith/internal/markdown"
	"github.com/docsmith/docsmith/internal/registry"
	"github.com/docsmith/docsmith/internal/render"
	"github.com/docsmith/docsmith/internal/scanner"
	"github.com/docsmith/docsmith/internal/types"
	"github.com/docsmith/docsmith/web"
)

// Builder generates the static site. A Builder is re-entrant: watch mode
// calls Build repeatedly on the same instance.
type Builder struct {
	cfg       *config.Config
	registry  *registry.PageRegistry
	scanner   *scanner.PageScanner
	renderer  *render.Renderer
	converter *markdown.Converter
	collector *errors.ErrorCollector
	logger    logging.Logger
}

// Result summarizes a completed build.
type Result struct {
	Pages          int
	GeneratedFiles []string
	Duration       time.Duration
}

// New creates a Builder for the given configuration.
func New(cfg *config.Config, logger logging.Logger) (*Builder, error) {
	renderer, err := render.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	reg := registry.NewPageRegistry()

	return &Builder{
		cfg:      cfg,
		registry: reg,
		scanner: scanner.NewPageScanner(reg,
			scanner.WithExcludePatterns(cfg.Content.ExcludePatterns),
			scanner.WithDrafts(cfg.Content.IncludeDrafts),
		),
		renderer:  renderer,
		converter: markdown.New(cfg.Theme.HighlightStyle),
		collector: errors.NewErrorCollector(),
		logger:    logger.WithComponent("build"),
	}, nil
}

// Registry exposes the page registry so the development server can
// subscribe to page events.
func (b *Builder) Registry() *registry.PageRegistry {
	return b.registry
}

// Renderer exposes the renderer, letting the development server switch
// on live reload before the first build.
func (b *Builder) Renderer() *render.Renderer {
	return b.renderer
}

// Build runs a full site build. All validation and render errors are
// collected before failing so a single run reports every problem.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	op := b.logger.StartOperation("build")
	result, err := b.run(ctx)
	if err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}
	op.End(ctx)
	return result, nil
}

func (b *Builder) run(ctx context.Context) (*Result, error) {
	start := time.Now()
	collector := b.collector
	collector.Clear()

	if err := b.scanner.ScanDirectory(b.cfg.Content.Dir); err != nil {
		return nil, fmt.Errorf("scanning content: %w", err)
	}
	b.evictDeleted(ctx)

	pages := b.registry.GetAll()
	b.logger.Info(ctx, "Scanned content", "pages", len(pages))

	b.validateAssets(collector)

	if err := os.MkdirAll(b.cfg.Build.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	files := make([]string, 0, len(pages)+8)

	if f, err := b.writeHomepage(); err != nil {
		collector.AddError(err)
	} else {
		files = append(files, f)
	}

	sidebar := b.buildSidebar(pages)
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := b.writePage(page, sidebar, prevLink(pages, i), nextLink(pages, i))
		if err != nil {
			collector.Add(errors.BuildError{
				Page:     page.Slug,
				File:     page.FilePath,
				Message:  err.Error(),
				Severity: errors.ErrorSeverityError,
			})
			continue
		}
		files = append(files, f)
	}

	if f, err := b.writeNotFound(); err != nil {
		collector.AddError(err)
	} else {
		files = append(files, f)
	}

	themeFiles, err := b.copyThemeAssets()
	if err != nil {
		collector.AddError(err)
	}
	files = append(files, themeFiles...)

	staticFiles, err := b.copyStaticAssets()
	if err != nil {
		collector.AddError(err)
	}
	files = append(files, staticFiles...)

	if b.cfg.Build.GenerateSitemap {
		if f, err := b.writeSitemap(pages); err != nil {
			collector.AddError(err)
		} else {
			files = append(files, f)
		}
	}

	if b.cfg.Build.GenerateRobots {
		if f, err := b.writeRobots(); err != nil {
			collector.AddError(err)
		} else {
			files = append(files, f)
		}
	}

	if collector.HasErrors() {
		return nil, fmt.Errorf("build failed with %d errors:\n%s", collector.Count(), collector.Summary())
	}

	return &Result{
		Pages:          len(pages),
		GeneratedFiles: files,
		Duration:       time.Since(start),
	}, nil
}

// evictDeleted drops registry entries whose source files no longer
// exist, so watch-mode rebuilds converge after a page is deleted or
// renamed instead of failing on the stale entry forever.
func (b *Builder) evictDeleted(ctx context.Context) {
	for _, page := range b.registry.GetAll() {
		if _, err := os.Stat(page.FilePath); os.IsNotExist(err) {
			b.logger.Debug(ctx, "Page source removed", "slug", page.Slug, "file", page.FilePath)
			b.registry.Remove(page.Slug)
		}
	}
}

// validateAssets checks that every feature icon and the custom CSS file
// exist before anything is written. A missing icon must fail the build,
// never render silently.
func (b *Builder) validateAssets(collector *errors.ErrorCollector) {
	for _, feature := range b.cfg.Homepage.Features {
		asset := filepath.Join(b.cfg.Content.StaticDir, filepath.FromSlash(feature.Icon))
		if _, err := os.Stat(asset); err != nil {
			collector.Add(errors.MissingAssetError(configFileName, feature.Icon))
		}
	}

	if b.cfg.Theme.CustomCSS != "" {
		if _, err := os.Stat(b.cfg.Theme.CustomCSS); err != nil {
			collector.Add(errors.MissingAssetError(configFileName, b.cfg.Theme.CustomCSS))
		}
	}
}

const configFileName = ".docsmith.yml"

func (b *Builder) writeHomepage() (string, error) {
	path := filepath.Join(b.cfg.Build.OutputDir, "index.html")
	return path, b.writeRendered(path, func(w *strings.Builder) error {
		return b.renderer.RenderHome(w, b.cfg.Homepage.Hero, b.cfg.Homepage.Features)
	})
}

func (b *Builder) writePage(page *types.PageInfo, sidebar []render.SidebarSection, prev, next *render.PageLink) (string, error) {
	raw, err := os.ReadFile(page.FilePath)
	if err != nil {
		return "", err
	}

	_, body, err := scanner.SplitFrontmatter(raw)
	if err != nil {
		return "", err
	}

	content, err := b.converter.ToHTML(body)
	if err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	view := render.PageView{
		Title:       page.Title,
		Description: page.Description,
		Content:     template.HTML(content),
		Sidebar:     markActive(sidebar, pageURL(page.Slug)),
		Prev:        prev,
		Next:        next,
	}

	path := filepath.Join(b.cfg.Build.OutputDir, filepath.FromSlash(page.Slug), "index.html")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	return path, b.writeRendered(path, func(w *strings.Builder) error {
		return b.renderer.RenderPage(w, view)
	})
}

func (b *Builder) writeNotFound() (string, error) {
	path := filepath.Join(b.cfg.Build.OutputDir, "404.html")
	return path, b.writeRendered(path, func(w *strings.Builder) error {
		return b.renderer.RenderNotFound(w)
	})
}

// writeRendered renders through fn, optionally minifies, and writes the
// result to path.
func (b *Builder) writeRendered(path string, fn func(*strings.Builder) error) error {
	var buf strings.Builder
	if err := fn(&buf); err != nil {
		return err
	}

	html := buf.String()
	if b.cfg.Build.MinifyHTML {
		html = minifyHTML(html)
	}

	return os.WriteFile(path, []byte(html), 0644)
}

// buildSidebar groups the ordered page list into sidebar sections. Root
// pages come first, then each content subdirectory in page order.
func (b *Builder) buildSidebar(pages []*types.PageInfo) []render.SidebarSection {
	sections := make([]render.SidebarSection, 0, 4)
	index := make(map[string]int)

	for _, page := range pages {
		name := sectionTitle(page.Section)
		i, ok := index[page.Section]
		if !ok {
			sections = append(sections, render.SidebarSection{Name: name})
			i = len(sections) - 1
			index[page.Section] = i
		}
		sections[i].Pages = append(sections[i].Pages, render.SidebarItem{
			Title: page.Title,
			URL:   pageURL(page.Slug),
		})
	}

	return sections
}

// markActive returns a copy of the sidebar with the entry matching url
// flagged active. The shared sidebar slice is never mutated.
func markActive(sidebar []render.SidebarSection, url string) []render.SidebarSection {
	out := make([]render.SidebarSection, len(sidebar))
	for i, section := range sidebar {
		out[i] = render.SidebarSection{Name: section.Name, Pages: make([]render.SidebarItem, len(section.Pages))}
		copy(out[i].Pages, section.Pages)
		for j := range out[i].Pages {
			if out[i].Pages[j].URL == url {
				out[i].Pages[j].Active = true
			}
		}
	}
	return out
}

func prevLink(pages []*types.PageInfo, i int) *render.PageLink {
	if i == 0 {
		return nil
	}
	return &render.PageLink{Title: pages[i-1].Title, URL: pageURL(pages[i-1].Slug)}
}

func nextLink(pages []*types.PageInfo, i int) *render.PageLink {
	if i >= len(pages)-1 {
		return nil
	}
	return &render.PageLink{Title: pages[i+1].Title, URL: pageURL(pages[i+1].Slug)}
}

// pageURL maps a slug to its pretty URL (directory with trailing slash).
func pageURL(slug string) string {
	return "/" + slug + "/"
}

// sectionTitle humanizes a content directory name for sidebar headings.
func sectionTitle(section string) string {
	if section == "" {
		return ""
	}
	name := strings.ReplaceAll(section, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ToUpper(name[:1]) + name[1:]
}

// copyThemeAssets writes the embedded theme files into the output
// directory and appends the site's custom CSS to the theme stylesheet.
func (b *Builder) copyThemeAssets() ([]string, error) {
	files := make([]string, 0, 2)

	err := fs.WalkDir(web.ThemeFS, "static", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel := strings.TrimPrefix(path, "static/")
		dst := filepath.Join(b.cfg.Build.OutputDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}

		data, err := fs.ReadFile(web.ThemeFS, path)
		if err != nil {
			return err
		}

		if rel == "css/theme.css" && b.cfg.Theme.CustomCSS != "" {
			custom, err := os.ReadFile(b.cfg.Theme.CustomCSS)
			if err != nil {
				return fmt.Errorf("reading custom css: %w", err)
			}
			data = append(append(data, '\n'), custom...)
		}

		if err := os.WriteFile(dst, data, 0644); err != nil {
			return err
		}
		files = append(files, dst)
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("copying theme assets: %w", err)
	}

	return files, nil
}

// copyStaticAssets mirrors the site's static directory into the output
// root. A missing static directory is not an error; sites without images
// are valid.
func (b *Builder) copyStaticAssets() ([]string, error) {
	if _, err := os.Stat(b.cfg.Content.StaticDir); os.IsNotExist(err) {
		return nil, nil
	}

	files := make([]string, 0, 8)
	root := os.DirFS(b.cfg.Content.StaticDir)

	err := fs.WalkDir(root, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		dst := filepath.Join(b.cfg.Build.OutputDir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}

		data, err := fs.ReadFile(root, path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return err
		}
		files = append(files, dst)
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("copying static assets: %w", err)
	}

	return files, nil
}

// writeSitemap emits sitemap.xml with the homepage and every page URL.
func (b *Builder) writeSitemap(pages []*types.PageInfo) (string, error) {
	path := filepath.Join(b.cfg.Build.OutputDir, "sitemap.xml")

	baseURL := strings.TrimSuffix(b.cfg.Site.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost"
	}

	var sitemap strings.Builder
	sitemap.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sitemap.WriteString("\n")
	sitemap.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	sitemap.WriteString("\n")

	writeEntry := func(url string, lastMod time.Time) {
		sitemap.WriteString("  <url>\n")
		sitemap.WriteString(fmt.Sprintf("    <loc>%s</loc>\n", url))
		sitemap.WriteString(fmt.Sprintf("    <lastmod>%s</lastmod>\n", lastMod.Format("2006-01-02")))
		sitemap.WriteString("  </url>\n")
	}

	writeEntry(baseURL+"/", time.Now())
	for _, page := range pages {
		writeEntry(baseURL+pageURL(page.Slug), page.LastMod)
	}

	sitemap.WriteString("</urlset>\n")

	if err := os.WriteFile(path, []byte(sitemap.String()), 0644); err != nil {
		return "", fmt.Errorf("writing sitemap: %w", err)
	}
	return path, nil
}

// writeRobots emits robots.txt, pointing at the sitemap when one is
// generated.
func (b *Builder) writeRobots() (string, error) {
	path := filepath.Join(b.cfg.Build.OutputDir, "robots.txt")

	content := "User-agent: *\nAllow: /\n"
	if b.cfg.Build.GenerateSitemap && b.cfg.Site.BaseURL != "" {
		content += fmt.Sprintf("Sitemap: %s/sitemap.xml\n", strings.TrimSuffix(b.cfg.Site.BaseURL, "/"))
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing robots.txt: %w", err)
	}
	return path, nil
}

// minifyHTML performs whitespace-level HTML minification.
func minifyHTML(html string) string {
	lines := strings.Split(html, "\n")
	var minified strings.Builder

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			minified.WriteString(trimmed)
			minified.WriteString(" ")
		}
	}

	result := strings.TrimSpace(minified.String())
	result = strings.ReplaceAll(result, "> <", "><")

	return result
}
