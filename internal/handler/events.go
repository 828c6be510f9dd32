package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sakif/assignment-hub/internal/auth"
	"github.com/sakif/assignment-hub/internal/notify"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must be shorter than pongWait
	maxInboundSize = 512
)

// EventsHandler streams hub events to a browser over a WebSocket.
//
// CONNECTION MODEL:
// Each connection runs two goroutines:
//   - writePump: the only writer on the conn. Forwards hub events and pings.
//   - readPump:  drains inbound frames so pongs and close frames are seen.
//
// When the reader fails (client gone) it unregisters from the hub, which
// closes the event channel, which ends the writer. When the hub drops a slow
// client the channel closes first and the writer sends a close frame.
type EventsHandler struct {
	hub      *notify.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewEventsHandler(hub *notify.Hub, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		hub: hub,
		// A nil CheckOrigin rejects cross-origin upgrades, which matters
		// because the session cookie rides along automatically.
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

// HandleEvents upgrades the request and streams events until either side
// goes away.
//
// HTTP: GET /api/events (WebSocket)
// Auth: required
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	client, err := h.hub.Register(identity)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:   "unavailable",
			Message: "server is shutting down",
		})
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		h.hub.Unregister(client)
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	h.logger.Debug("events client connected",
		slog.String("clientID", client.ID),
		slog.String("userID", identity.UserID),
	)

	go h.writePump(conn, client)
	h.readPump(conn, client)
}

func (h *EventsHandler) readPump(conn *websocket.Conn, client *notify.Client) {
	defer func() {
		h.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxInboundSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("events client read error", slog.String("error", err.Error()))
			}
			return
		}
	}
}

func (h *EventsHandler) writePump(conn *websocket.Conn, client *notify.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-client.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
