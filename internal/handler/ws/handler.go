// Package ws terminates relay connections: it upgrades HTTP requests to
// websockets, owns the per-connection read loop, and hands inbound
// frames to the relay service one at a time.
package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/roomwire/roomwire/internal/config"
	"github.com/roomwire/roomwire/internal/service/relay"
)

// Handler upgrades connections and runs their frame loops.
type Handler struct {
	relay        *relay.Service
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	readTimeout  time.Duration
}

// New creates a websocket handler over the relay service.
func New(relaySvc *relay.Service, cfg config.WSConfig) *Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if cfg.AllowAllOrigins {
		upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}

	return &Handler{
		relay:        relaySvc,
		upgrader:     upgrader,
		pingInterval: cfg.PingInterval,
		readTimeout:  cfg.ReadTimeout,
	}
}

// RegisterRoutes registers the relay endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

// handleWebSocket runs the lifecycle of one connection: session created
// on upgrade, frames processed serially in arrival order, session
// removed from the registry when the loop exits.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}

	wc := newConn(conn)
	defer wc.Close()

	sess := h.relay.NewSession(wc)
	defer func() {
		h.relay.Disconnect(sess)
		if id := sess.Identity(); id != nil {
			log.Printf("[websocket] connection closed user=%s", id.UserID)
		}
	}()

	log.Printf("[websocket] new connection from %s", conn.RemoteAddr())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.readTimeout))
		return nil
	})

	go h.pingLoop(ctx, wc)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(h.readTimeout))
		h.relay.HandleFrame(ctx, sess, raw)
	}
}

// pingLoop keeps the connection alive until the read loop exits.
func (h *Handler) pingLoop(ctx context.Context, wc *wsConn) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := wc.ping(); err != nil {
				return
			}
		}
	}
}
