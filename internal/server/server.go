// Package server implements the docsmith development server: it serves
// the built site, rebuilds when source files change, and pushes reload
// notifications to connected browsers over a WebSocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/docsmith/docsmith/internal/build"
	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/logging"
	"github.com/docsmith/docsmith/internal/watcher"
)

// debounceDelay groups rapid editor saves into one rebuild.
const debounceDelay = 300 * time.Millisecond

// DevServer serves the built site with hot reload.
type DevServer struct {
	cfg     *config.Config
	builder *build.Builder
	watcher *watcher.FileWatcher
	logger  logging.Logger

	httpServer *http.Server

	clients      map[*client]struct{}
	clientsMutex sync.Mutex
	register     chan *client
	unregister   chan *client
	broadcast    chan []byte
}

// New creates a development server for the given configuration.
func New(cfg *config.Config, logger logging.Logger) (*DevServer, error) {
	builder, err := build.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Development.HotReload {
		builder.Renderer().EnableLiveReload()
	}

	fw, err := watcher.NewFileWatcher(debounceDelay, logger)
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	s := &DevServer{
		cfg:        cfg,
		builder:    builder,
		watcher:    fw,
		logger:     logger.WithComponent("server"),
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client, 32),
		broadcast:  make(chan []byte, 16),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/livereload.js", s.handleLiveReloadScript)
	mux.HandleFunc("/", s.handleSite)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.loggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Start builds the site, begins watching sources, and serves until ctx
// is canceled or the listener fails.
func (s *DevServer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if _, err := s.builder.Build(ctx); err != nil {
		return fmt.Errorf("initial build: %w", err)
	}

	if err := s.setupWatcher(ctx); err != nil {
		return err
	}

	go s.runHub(ctx)

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.httpServer.Addr, err)
	}

	url := fmt.Sprintf("http://%s", listener.Addr().String())
	s.logger.Info(ctx, "Development server ready", "url", url)

	if s.cfg.Server.Open {
		if err := openBrowser(url); err != nil {
			s.logger.Warn(ctx, err, "Failed to open browser")
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown gracefully stops the HTTP server and the file watcher.
func (s *DevServer) Shutdown(ctx context.Context) error {
	if err := s.watcher.Stop(); err != nil {
		s.logger.Warn(ctx, err, "Stopping file watcher")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// setupWatcher wires source directories and the rebuild handler.
func (s *DevServer) setupWatcher(ctx context.Context) error {
	s.watcher.AddFilter(watcher.SiteSourceFilter)
	s.watcher.AddFilter(watcher.NoHiddenFilter)
	s.watcher.AddFilter(watcher.NoTempFilter)
	s.watcher.AddFilter(watcher.NoOutputFilter(s.cfg.Build.OutputDir))

	if err := s.watcher.AddRecursive(s.cfg.Content.Dir); err != nil {
		return fmt.Errorf("watching content dir: %w", err)
	}
	if _, err := os.Stat(s.cfg.Content.StaticDir); err == nil {
		if err := s.watcher.AddRecursive(s.cfg.Content.StaticDir); err != nil {
			return fmt.Errorf("watching static dir: %w", err)
		}
	}
	// The config file lives in the project root; watch it non-recursively.
	if err := s.watcher.AddPath("."); err != nil {
		return fmt.Errorf("watching project root: %w", err)
	}

	s.watcher.AddHandler(func(events []watcher.ChangeEvent) error {
		s.logger.Info(ctx, "Source changed, rebuilding", "files", len(events))
		if _, err := s.builder.Build(ctx); err != nil {
			s.logger.Error(ctx, err, "Rebuild failed")
			return nil // keep watching; the next save may fix it
		}
		s.Broadcast([]byte("reload"))
		return nil
	})

	return s.watcher.Start(ctx)
}

// handleSite serves files from the build output directory, mapping
// directory URLs to index.html and unknown paths to the 404 page.
func (s *DevServer) handleSite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	upath := filepath.Clean(strings.TrimPrefix(r.URL.Path, "/"))
	if upath == "." {
		upath = "index.html"
	}
	if strings.Contains(upath, "..") {
		http.NotFound(w, r)
		return
	}

	target := filepath.Join(s.cfg.Build.OutputDir, filepath.FromSlash(upath))
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, "index.html")
	}

	if _, err := os.Stat(target); err != nil {
		s.serveNotFound(w, r)
		return
	}

	http.ServeFile(w, r, target)
}

func (s *DevServer) serveNotFound(w http.ResponseWriter, r *http.Request) {
	notFound := filepath.Join(s.cfg.Build.OutputDir, "404.html")
	data, err := os.ReadFile(notFound)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(data)
}

// handleLiveReloadScript serves the client half of hot reload: a script
// that reconnects to /ws and reloads the page on a reload message.
func (s *DevServer) handleLiveReloadScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	fmt.Fprint(w, `(function () {
  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/ws");
    ws.onmessage = function (msg) {
      if (msg.data === "reload") {
        location.reload();
      }
    };
    ws.onclose = function () {
      setTimeout(connect, 1000);
    };
  }
  connect();
})();
`)
}

// loggingMiddleware logs each request with method, path, and duration.
func (s *DevServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug(r.Context(), "Request served",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
