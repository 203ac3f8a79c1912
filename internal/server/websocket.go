package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peers with this period to detect dead connections.
	pingPeriod = 54 * time.Second
)

// Client is one connected browser tab.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	server *PreviewServer
}

func (s *PreviewServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.allowedOrigins(),
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}

	client := &Client{
		conn:   conn,
		send:   make(chan []byte, 16),
		server: s,
	}

	go client.writePump()
	go client.readPump()

	s.register <- client
}

// allowedOrigins returns the origin patterns a browser may connect
// from: the configured bind address plus loopback equivalents.
func (s *PreviewServer) allowedOrigins() []string {
	port := s.config.Server.Port
	return []string{
		fmt.Sprintf("%s:%d", s.config.Server.Host, port),
		fmt.Sprintf("localhost:%d", port),
		fmt.Sprintf("127.0.0.1:%d", port),
	}
}

func (s *PreviewServer) runWebSocketHub(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAllClients()
			return

		case client := <-s.register:
			s.clientsMutex.Lock()
			s.clients[client.conn] = client
			count := len(s.clients)
			s.clientsMutex.Unlock()
			s.logger.Debug(ctx, "client connected", "total", count)

		case conn := <-s.unregister:
			s.clientsMutex.Lock()
			if client, ok := s.clients[conn]; ok {
				delete(s.clients, conn)
				close(client.send)
			}
			count := len(s.clients)
			s.clientsMutex.Unlock()
			s.logger.Debug(ctx, "client disconnected", "total", count)

		case <-ticker.C:
			s.pingClients(ctx)
		}
	}
}

// broadcastReload tells every connected client to reload the page.
func (s *PreviewServer) broadcastReload() {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	for _, client := range s.clients {
		select {
		case client.send <- []byte("reload"):
		default:
			// Client is backed up, skip; the ping loop will reap it.
		}
	}
}

func (s *PreviewServer) pingClients(ctx context.Context) {
	s.clientsMutex.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for _, client := range s.clients {
		clients = append(clients, client)
	}
	s.clientsMutex.RUnlock()

	for _, client := range clients {
		pingCtx, cancel := context.WithTimeout(ctx, writeWait)
		err := client.conn.Ping(pingCtx)
		cancel()
		if err != nil {
			s.unregister <- client.conn
		}
	}
}

func (s *PreviewServer) closeAllClients() {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()

	for conn, client := range s.clients {
		close(client.send)
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(s.clients, conn)
	}
}

// writePump drains the send channel to the connection.
func (c *Client) writePump() {
	for message := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			c.server.unregister <- c.conn
			return
		}
	}
	c.conn.Close(websocket.StatusNormalClosure, "")
}

// readPump discards inbound messages and detects closed connections.
func (c *Client) readPump() {
	for {
		if _, _, err := c.conn.Read(context.Background()); err != nil {
			c.server.unregister <- c.conn
			return
		}
	}
}
