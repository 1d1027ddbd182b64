package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peers with this period to detect dead connections.
	pingPeriod = 30 * time.Second
)

// client is one connected browser tab.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// handleWebSocket upgrades a connection and registers it with the hub.
func (s *DevServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(r) {
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Origin already validated above against the configured host list
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "WebSocket upgrade failed")
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 16),
	}

	go s.writePump(c)
	go s.readPump(c)

	s.register <- c
}

// checkOrigin validates the request origin. Only the configured server
// address, loopback equivalents, and explicitly allowed origins pass.
func (s *DevServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return false
	}

	allowed := []string{
		fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		fmt.Sprintf("localhost:%d", s.cfg.Server.Port),
		fmt.Sprintf("127.0.0.1:%d", s.cfg.Server.Port),
	}
	allowed = append(allowed, s.cfg.Server.AllowedOrigins...)

	for _, host := range allowed {
		if originURL.Host == host {
			return true
		}
	}
	return false
}

// Broadcast queues a message for every connected client.
func (s *DevServer) Broadcast(message []byte) {
	select {
	case s.broadcast <- message:
	default:
		// Hub busy; live reload is best effort
	}
}

// ClientCount returns the number of connected live-reload clients.
func (s *DevServer) ClientCount() int {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	return len(s.clients)
}

// runHub owns the client set: registrations, removals, broadcast fan-out,
// and periodic pings.
func (s *DevServer) runHub(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return

		case c := <-s.register:
			s.clientsMutex.Lock()
			s.clients[c] = struct{}{}
			count := len(s.clients)
			s.clientsMutex.Unlock()
			s.logger.Debug(ctx, "Live-reload client connected", "total", count)

		case c := <-s.unregister:
			s.removeClient(ctx, c)

		case message := <-s.broadcast:
			s.clientsMutex.Lock()
			for c := range s.clients {
				select {
				case c.send <- message:
				default:
					// Slow client; drop the message rather than block the hub
				}
			}
			s.clientsMutex.Unlock()

		case <-ticker.C:
			s.pingAll(ctx)
		}
	}
}

func (s *DevServer) removeClient(ctx context.Context, c *client) {
	s.clientsMutex.Lock()
	_, exists := s.clients[c]
	if exists {
		delete(s.clients, c)
		close(c.send)
	}
	count := len(s.clients)
	s.clientsMutex.Unlock()

	if exists {
		_ = c.conn.Close(websocket.StatusNormalClosure, "")
		s.logger.Debug(ctx, "Live-reload client disconnected", "total", count)
	}
}

func (s *DevServer) pingAll(ctx context.Context) {
	s.clientsMutex.Lock()
	conns := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.clientsMutex.Unlock()

	for _, c := range conns {
		pingCtx, cancel := context.WithTimeout(ctx, writeWait)
		err := c.conn.Ping(pingCtx)
		cancel()
		if err != nil {
			// pingAll runs on the hub goroutine, the only unregister
			// receiver; sending there would block on ourselves.
			s.removeClient(ctx, c)
		}
	}
}

func (s *DevServer) closeAll() {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	for c := range s.clients {
		_ = c.conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(s.clients, c)
		close(c.send)
	}
}

// writePump forwards queued messages to the peer until the send channel
// closes.
func (s *DevServer) writePump(c *client) {
	for message := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			s.unregister <- c
			return
		}
	}
}

// readPump drains incoming messages (the client never sends anything
// meaningful) and unregisters on close.
func (s *DevServer) readPump(c *client) {
	defer func() {
		s.unregister <- c
	}()
	for {
		if _, _, err := c.conn.Read(context.Background()); err != nil {
			return
		}
	}
}
