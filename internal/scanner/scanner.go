// Package scanner discovers documentation pages by walking the content
// directory, parsing YAML frontmatter, and registering the resulting
// page metadata with the page registry.
package scanner

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docsmith/docsmith/internal/registry"
	"github.com/docsmith/docsmith/internal/slug"
	"github.com/docsmith/docsmith/internal/types"
)

// frontmatterDelim separates YAML frontmatter from the Markdown body.
var frontmatterDelim = []byte("---")

// Frontmatter is the YAML header accepted at the top of every page.
type Frontmatter struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Position    int    `yaml:"position"`
	Description string `yaml:"description"`
	Draft       bool   `yaml:"draft"`
}

// PageScanner discovers Markdown pages and registers them.
type PageScanner struct {
	registry        *registry.PageRegistry
	excludePatterns []string
	includeDrafts   bool
}

// Option configures a PageScanner.
type Option func(*PageScanner)

// WithExcludePatterns sets glob patterns (matched against base names)
// for files the scanner should skip.
func WithExcludePatterns(patterns []string) Option {
	return func(s *PageScanner) {
		s.excludePatterns = patterns
	}
}

// WithDrafts makes the scanner register pages marked draft: true.
func WithDrafts(include bool) Option {
	return func(s *PageScanner) {
		s.includeDrafts = include
	}
}

// NewPageScanner creates a new page scanner
func NewPageScanner(reg *registry.PageRegistry, opts ...Option) *PageScanner {
	s := &PageScanner{registry: reg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanDirectory walks the content directory rooted at dir and registers
// every Markdown page found. Returns an error for filesystem failures;
// malformed individual pages are reported per file.
func (s *PageScanner) ScanDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("content directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("content path %s is not a directory", dir)
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdown(path) || s.excluded(path) {
			return nil
		}

		page, err := s.ScanFile(dir, path)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if page == nil {
			// Draft skipped
			return nil
		}

		s.registry.Register(page)
		return nil
	})
}

// ScanFile parses a single Markdown file into a PageInfo. Returns
// (nil, nil) for drafts when drafts are disabled.
func (s *PageScanner) ScanFile(root, path string) (*types.PageInfo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fm, _, err := SplitFrontmatter(raw)
	if err != nil {
		return nil, err
	}

	if fm.Draft && !s.includeDrafts {
		return nil, nil
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	title := fm.Title
	if title == "" {
		title = titleFromPath(rel)
	}

	pageSlug := fm.Slug
	if pageSlug == "" {
		pageSlug = slugFromPath(rel)
	}

	return &types.PageInfo{
		Title:       title,
		Slug:        pageSlug,
		FilePath:    path,
		Section:     sectionFromPath(rel),
		Position:    fm.Position,
		Description: fm.Description,
		Draft:       fm.Draft,
		LastMod:     info.ModTime(),
		Hash:        fmt.Sprintf("%08x", crc32.ChecksumIEEE(raw)),
	}, nil
}

// SplitFrontmatter separates the YAML frontmatter header from the
// Markdown body. Pages without a header are valid; the whole input is
// then the body.
func SplitFrontmatter(raw []byte) (Frontmatter, []byte, error) {
	var fm Frontmatter

	trimmed := bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")) // strip UTF-8 BOM
	if !bytes.HasPrefix(trimmed, frontmatterDelim) {
		return fm, raw, nil
	}

	rest := trimmed[len(frontmatterDelim):]
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	if len(rest) == 0 || rest[0] != '\n' {
		return fm, raw, nil
	}
	rest = rest[1:]

	var header, body []byte
	if bytes.HasPrefix(rest, frontmatterDelim) {
		// Empty frontmatter block; the closing delimiter follows at once
		body = rest[len(frontmatterDelim):]
	} else {
		end := bytes.Index(rest, append([]byte("\n"), frontmatterDelim...))
		if end < 0 {
			return fm, nil, fmt.Errorf("unterminated frontmatter block")
		}
		header = rest[:end]
		body = rest[end+1+len(frontmatterDelim):]
	}
	body = bytes.TrimPrefix(body, []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))

	if len(header) > 0 {
		if err := yaml.Unmarshal(header, &fm); err != nil {
			return fm, nil, fmt.Errorf("parsing frontmatter: %w", err)
		}
	}

	return fm, body, nil
}

func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

func (s *PageScanner) excluded(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range s.excludePatterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// slugFromPath derives the page slug from its path relative to the
// content root: directories are slugified per element, the extension is
// dropped, and index pages collapse to their directory.
func slugFromPath(rel string) string {
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))

	parts := strings.Split(rel, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, slug.Generate(part))
	}

	if out[len(out)-1] == "index" {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return "index"
	}
	return strings.Join(out, "/")
}

// sectionFromPath returns the top-level directory of a page, or "" for
// pages at the content root.
func sectionFromPath(rel string) string {
	if i := strings.Index(rel, "/"); i >= 0 {
		return rel[:i]
	}
	return ""
}

// titleFromPath falls back to a humanized file name when frontmatter
// has no title.
func titleFromPath(rel string) string {
	base := filepath.Base(rel)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	if base == "" {
		return base
	}
	return strings.ToUpper(base[:1]) + base[1:]
}
