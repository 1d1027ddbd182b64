package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsmith/docsmith/internal/registry"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSplitFrontmatter(t *testing.T) {
	fm, body, err := SplitFrontmatter([]byte("---\ntitle: Intro\nposition: 3\ndraft: true\n---\n\n# Hello\n"))
	require.NoError(t, err)

	assert.Equal(t, "Intro", fm.Title)
	assert.Equal(t, 3, fm.Position)
	assert.True(t, fm.Draft)
	assert.Equal(t, "\n# Hello\n", string(body))
}

func TestSplitFrontmatterNoHeader(t *testing.T) {
	raw := []byte("# Just Markdown\n")
	fm, body, err := SplitFrontmatter(raw)
	require.NoError(t, err)

	assert.Empty(t, fm.Title)
	assert.Equal(t, raw, body)
}

func TestSplitFrontmatterBOM(t *testing.T) {
	fm, _, err := SplitFrontmatter([]byte("\xef\xbb\xbf---\ntitle: Intro\n---\nbody\n"))
	require.NoError(t, err)
	assert.Equal(t, "Intro", fm.Title)
}

func TestSplitFrontmatterEmptyHeader(t *testing.T) {
	fm, body, err := SplitFrontmatter([]byte("---\n---\n# Hello\n"))
	require.NoError(t, err)

	assert.Empty(t, fm.Title)
	assert.False(t, fm.Draft)
	assert.Equal(t, "# Hello\n", string(body))
}

func TestSplitFrontmatterUnterminated(t *testing.T) {
	_, _, err := SplitFrontmatter([]byte("---\ntitle: Intro\n\n# Hello\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated")
}

func TestSplitFrontmatterInvalidYAML(t *testing.T) {
	_, _, err := SplitFrontmatter([]byte("---\ntitle: [\n---\nbody\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing frontmatter")
}

func TestSplitFrontmatterDashesInBody(t *testing.T) {
	// A thematic break inside the body is not a frontmatter delimiter
	fm, body, err := SplitFrontmatter([]byte("above\n---\nbelow\n"))
	require.NoError(t, err)
	assert.Empty(t, fm.Title)
	assert.Contains(t, string(body), "above")
}

func TestScanFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "guides/installation.md", "---\ntitle: Installation\nposition: 1\n---\n\nSteps.\n")

	s := NewPageScanner(registry.NewPageRegistry())
	page, err := s.ScanFile(dir, path)
	require.NoError(t, err)
	require.NotNil(t, page)

	assert.Equal(t, "Installation", page.Title)
	assert.Equal(t, "guides/installation", page.Slug)
	assert.Equal(t, "guides", page.Section)
	assert.Equal(t, 1, page.Position)
	assert.Len(t, page.Hash, 8)
	assert.False(t, page.LastMod.IsZero())
}

func TestScanFileDraftSkipped(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "wip.md", "---\ntitle: WIP\ndraft: true\n---\nsoon\n")

	s := NewPageScanner(registry.NewPageRegistry())
	page, err := s.ScanFile(dir, path)
	require.NoError(t, err)
	assert.Nil(t, page)

	withDrafts := NewPageScanner(registry.NewPageRegistry(), WithDrafts(true))
	page, err = withDrafts.ScanFile(dir, path)
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.True(t, page.Draft)
}

func TestScanFileFallbacks(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "getting-started.md", "No frontmatter here.\n")

	s := NewPageScanner(registry.NewPageRegistry())
	page, err := s.ScanFile(dir, path)
	require.NoError(t, err)
	require.NotNil(t, page)

	assert.Equal(t, "Getting started", page.Title)
	assert.Equal(t, "getting-started", page.Slug)
	assert.Empty(t, page.Section)
}

func TestScanFileSlugOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "old-name.md", "---\nslug: new-name\n---\nbody\n")

	s := NewPageScanner(registry.NewPageRegistry())
	page, err := s.ScanFile(dir, path)
	require.NoError(t, err)
	assert.Equal(t, "new-name", page.Slug)
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "intro.md", "---\ntitle: Intro\n---\nhi\n")
	writeFile(t, dir, "guides/install.md", "---\ntitle: Install\n---\nhi\n")
	writeFile(t, dir, "guides/notes.txt", "not markdown")
	writeFile(t, dir, ".obsidian/cache.md", "hidden dir")
	writeFile(t, dir, "README.md", "excluded")

	reg := registry.NewPageRegistry()
	s := NewPageScanner(reg, WithExcludePatterns([]string{"README.md"}))

	require.NoError(t, s.ScanDirectory(dir))

	assert.Equal(t, 2, reg.Count())
	_, exists := reg.Get("intro")
	assert.True(t, exists)
	_, exists = reg.Get("guides/install")
	assert.True(t, exists)
}

func TestScanDirectoryMissing(t *testing.T) {
	s := NewPageScanner(registry.NewPageRegistry())
	err := s.ScanDirectory(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content directory")
}

func TestScanDirectoryMalformedPage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.md", "---\ntitle: Broken\n")

	s := NewPageScanner(registry.NewPageRegistry())
	err := s.ScanDirectory(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.md")
}

func TestSlugFromPath(t *testing.T) {
	testCases := []struct {
		rel      string
		expected string
	}{
		{"intro.md", "intro"},
		{"Getting Started.md", "getting-started"},
		{"guides/install.md", "guides/install"},
		{"guides/index.md", "guides"},
		{"index.md", "index"},
	}

	for _, tc := range testCases {
		t.Run(tc.rel, func(t *testing.T) {
			assert.Equal(t, tc.expected, slugFromPath(tc.rel))
		})
	}
}

func TestSectionFromPath(t *testing.T) {
	assert.Equal(t, "guides", sectionFromPath("guides/install.md"))
	assert.Equal(t, "guides", sectionFromPath("guides/advanced/tips.md"))
	assert.Empty(t, sectionFromPath("intro.md"))
}

func TestTitleFromPath(t *testing.T) {
	assert.Equal(t, "Getting started", titleFromPath("getting-started.md"))
	assert.Equal(t, "My page", titleFromPath("docs/my_page.md"))
}
