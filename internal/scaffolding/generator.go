// Package scaffolding creates new docsmith sites: a starter
// configuration, example documentation pages, and placeholder assets so
// `docsmith build` succeeds immediately after `docsmith init`.
package scaffolding

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Generator writes a starter site into a target directory.
type Generator struct {
	dir string
}

// NewGenerator creates a generator rooted at dir.
func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

// siteData is the template context for scaffolded files.
type siteData struct {
	Name string
}

// scaffoldFiles maps relative output paths to their templates.
var scaffoldFiles = map[string]string{
	".docsmith.yml":                configTemplate,
	"docs/intro.md":                introTemplate,
	"docs/guides/installation.md":  installationTemplate,
	"docs/guides/configuration.md": configurationTemplate,
	"static/img/easy.svg":          iconEasy,
	"static/img/focus.svg":         iconFocus,
	"static/img/fast.svg":          iconFast,
}

// Generate writes the starter site. It refuses to overwrite an existing
// configuration so rerunning init cannot clobber a real site.
func (g *Generator) Generate(siteName string) error {
	if siteName == "" {
		siteName = filepath.Base(absOrSelf(g.dir))
	}

	configPath := filepath.Join(g.dir, ".docsmith.yml")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists; refusing to overwrite", configPath)
	}

	data := siteData{Name: siteName}

	for rel, tmplText := range scaffoldFiles {
		path := filepath.Join(g.dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}

		content, err := renderTemplate(rel, tmplText, data)
		if err != nil {
			return err
		}

		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	return nil
}

func renderTemplate(name, tmplText string, data siteData) (string, error) {
	if !strings.Contains(tmplText, "{{") {
		return tmplText, nil
	}

	tmpl, err := template.New(name).Parse(tmplText)
	if err != nil {
		return "", fmt.Errorf("parsing scaffold template %s: %w", name, err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering scaffold template %s: %w", name, err)
	}
	return b.String(), nil
}

func absOrSelf(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}
