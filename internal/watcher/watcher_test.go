package watcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsmith/docsmith/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.LevelError,
		Format: "text",
		Output: io.Discard,
	})
}

// tempWatchDir creates a watchable directory under the working directory;
// watch paths outside it are rejected.
func tempWatchDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp(".", "watchtest-")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "created", EventTypeCreated.String())
	assert.Equal(t, "modified", EventTypeModified.String())
	assert.Equal(t, "deleted", EventTypeDeleted.String())
	assert.Equal(t, "renamed", EventTypeRenamed.String())
	assert.Equal(t, "unknown", EventType(42).String())
}

func TestValidatePath(t *testing.T) {
	_, err := validatePath("/etc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside current working directory")

	_, err = validatePath("../elsewhere")
	require.Error(t, err)

	clean, err := validatePath("./docs")
	require.NoError(t, err)
	assert.Equal(t, "docs", clean)
}

func TestAddPathRejectsOutside(t *testing.T) {
	fw, err := NewFileWatcher(10*time.Millisecond, testLogger())
	require.NoError(t, err)
	defer fw.Stop()

	assert.Error(t, fw.AddPath("/etc"))
	assert.Error(t, fw.AddRecursive("/etc"))
}

func TestWatchDetectsChanges(t *testing.T) {
	dir := tempWatchDir(t)

	fw, err := NewFileWatcher(20*time.Millisecond, testLogger())
	require.NoError(t, err)
	defer fw.Stop()

	fw.AddFilter(MarkdownFilter)

	var mu sync.Mutex
	var received []ChangeEvent
	done := make(chan struct{})
	fw.AddHandler(func(events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, events...)
		select {
		case <-done:
		default:
			close(done)
		}
		return nil
	})

	require.NoError(t, fw.AddPath(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, fw.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.md"), []byte("# hi"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644))

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("no change events received")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, received)
	for _, event := range received {
		assert.Equal(t, ".md", filepath.Ext(event.Path))
	}
}

func TestDebouncerBatchesEvents(t *testing.T) {
	d := &debouncer{
		delay:   30 * time.Millisecond,
		events:  make(chan ChangeEvent, 100),
		output:  make(chan []ChangeEvent, 10),
		pending: make([]ChangeEvent, 0),
	}

	// Rapid saves of the same file collapse to one event
	d.addEvent(ChangeEvent{Type: EventTypeCreated, Path: "a.md"})
	d.addEvent(ChangeEvent{Type: EventTypeModified, Path: "a.md"})
	d.addEvent(ChangeEvent{Type: EventTypeModified, Path: "b.md"})

	select {
	case batch := <-d.output:
		assert.Len(t, batch, 2)
	case <-time.After(time.Second):
		t.Fatal("debouncer never flushed")
	}
}

func TestMarkdownFilter(t *testing.T) {
	assert.True(t, MarkdownFilter("docs/intro.md"))
	assert.True(t, MarkdownFilter("docs/intro.markdown"))
	assert.False(t, MarkdownFilter("static/img/easy.svg"))
	assert.False(t, MarkdownFilter("docs/notes.txt"))
}

func TestSiteSourceFilter(t *testing.T) {
	assert.True(t, SiteSourceFilter("docs/intro.md"))
	assert.True(t, SiteSourceFilter("static/css/extra.css"))
	assert.True(t, SiteSourceFilter("static/img/easy.svg"))
	assert.True(t, SiteSourceFilter(".docsmith.yml"))
	assert.False(t, SiteSourceFilter("main.go"))
	assert.False(t, SiteSourceFilter("notes.txt"))
}

func TestNoHiddenFilter(t *testing.T) {
	assert.True(t, NoHiddenFilter("docs/intro.md"))
	assert.False(t, NoHiddenFilter(".git/HEAD"))
	assert.False(t, NoHiddenFilter("docs/.obsidian/cache.md"))

	// The site config file is the one dotfile that must trigger rebuilds
	assert.True(t, NoHiddenFilter(".docsmith.yml"))
	assert.True(t, NoHiddenFilter("./docs/intro.md"))
}

func TestNoOutputFilter(t *testing.T) {
	filter := NoOutputFilter("build")

	assert.False(t, filter(filepath.Join("build", "index.html")))
	assert.False(t, filter(filepath.Join("build", "guides", "index.html")))
	assert.True(t, filter(filepath.Join("docs", "intro.md")))
	assert.True(t, filter(".docsmith.yml"))
}

func TestNoTempFilter(t *testing.T) {
	assert.False(t, NoTempFilter("docs/intro.md~"))
	assert.False(t, NoTempFilter("docs/.intro.md.swp"))
	assert.False(t, NoTempFilter("docs/intro.md.bak"))
	assert.True(t, NoTempFilter("docs/intro.md"))
}
