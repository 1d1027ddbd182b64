package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.LevelError,
		Format: "text",
		Output: io.Discard,
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// testServer creates a DevServer over a pre-built output tree, without
// starting the listener or the watcher.
func testServer(t *testing.T) *DevServer {
	t.Helper()
	dir := t.TempDir()

	out := filepath.Join(dir, "build")
	writeFile(t, filepath.Join(out, "index.html"), "<h1>Home</h1>")
	writeFile(t, filepath.Join(out, "intro", "index.html"), "<h1>Intro</h1>")
	writeFile(t, filepath.Join(out, "404.html"), "<h1>Page Not Found</h1>")
	writeFile(t, filepath.Join(out, "css", "theme.css"), ".hero {}")

	cfg := &config.Config{}
	cfg.Site.Title = "Docsmith"
	cfg.Site.Language = "en"
	cfg.Content.Dir = filepath.Join(dir, "docs")
	cfg.Content.StaticDir = filepath.Join(dir, "static")
	cfg.Build.OutputDir = out
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 3000
	cfg.Theme.HighlightStyle = "github"

	s, err := New(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.watcher.Stop() })
	return s
}

func get(s *DevServer, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleSiteRoot(t *testing.T) {
	s := testServer(t)

	rec := get(s, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Home</h1>")
}

func TestHandleSiteDirectoryIndex(t *testing.T) {
	s := testServer(t)

	rec := get(s, "/intro/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Intro</h1>")
}

func TestHandleSiteAsset(t *testing.T) {
	s := testServer(t)

	rec := get(s, "/css/theme.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".hero")
}

func TestHandleSiteNotFound(t *testing.T) {
	s := testServer(t)

	rec := get(s, "/does-not-exist/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page Not Found")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestHandleSiteTraversal(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x/../../secret", nil)
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSiteMethodNotAllowed(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLiveReloadScript(t *testing.T) {
	s := testServer(t)

	rec := get(s, "/livereload.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "javascript")
	assert.Contains(t, rec.Body.String(), "/ws")
	assert.Contains(t, rec.Body.String(), "location.reload()")
}

func TestWebSocketRejectsBadOrigin(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCheckOrigin(t *testing.T) {
	s := testServer(t)
	s.cfg.Server.AllowedOrigins = []string{"docs.example.com"}

	testCases := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"no origin", "", false},
		{"configured host", "http://localhost:3000", true},
		{"loopback", "http://127.0.0.1:3000", true},
		{"wrong port", "http://localhost:9999", false},
		{"foreign host", "http://evil.example.com", false},
		{"extra allowed origin", "https://docs.example.com", true},
		{"non-http scheme", "file://localhost:3000", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			assert.Equal(t, tc.allowed, s.checkOrigin(req))
		})
	}
}

func waitForClients(t *testing.T, s *DevServer, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d clients, have %d", want, s.ClientCount())
}

// A failed ping must not stall the hub: it still has to accept new
// clients afterwards.
func TestHubSurvivesFailedPing(t *testing.T) {
	s := testServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.runHub(ctx)

	httpSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		s.register <- &client{conn: conn, send: make(chan []byte, 16)}
	}))
	defer httpSrv.Close()

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http")

	first, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	waitForClients(t, s, 1)

	// Tear down the browser side without a close handshake so the next
	// ping to this client fails
	_ = first.CloseNow()
	s.pingAll(ctx)
	waitForClients(t, s, 0)

	second, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer second.CloseNow()
	waitForClients(t, s, 1)
}

func TestBroadcastNeverBlocks(t *testing.T) {
	s := testServer(t)

	// No hub running; the broadcast channel fills up and further sends
	// must be dropped, not block.
	for i := 0; i < 100; i++ {
		s.Broadcast([]byte("reload"))
	}
	assert.Equal(t, 0, s.ClientCount())
}
