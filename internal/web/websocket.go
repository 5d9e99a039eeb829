package web

// websocket.go serves live view sessions. A session receives complete
// selections from the browser and answers each with a freshly computed view
// and its rendered chart. Sessions hold no state besides the connection.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/JonMunkholm/statdash/internal/core"
	"github.com/JonMunkholm/statdash/internal/logging"
	"github.com/JonMunkholm/statdash/internal/web/templates"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024

	// Buffer size for outbound messages
	sendBufferSize = 16
)

// Message types exchanged on the live view socket.
const (
	MessageTypeHello  = "hello"
	MessageTypeSelect = "select"
	MessageTypeView   = "view"
	MessageTypePing   = "ping"
	MessageTypePong   = "pong"
	MessageTypeError  = "error"
)

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type      string          `json:"type"`
	Selection *core.Selection `json:"selection,omitempty"`
}

// ServerMessage is sent to the browser.
type ServerMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	LoadID    string          `json:"load_id,omitempty"`
	Selection *core.Selection `json:"selection,omitempty"`
	View      *core.View      `json:"view,omitempty"`
	ChartHTML string          `json:"chart_html,omitempty"`
	Error     *ErrorResponse  `json:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// handleLiveView upgrades the request to a live view session.
func (s *Server) handleLiveView(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Acquire(r.Context()); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written an HTTP error.
		s.sessions.Release()
		logging.FromContext(r.Context()).Warn("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	sess := newLiveSession(id, conn, s.store, logging.WithFields(r.Context(), "session_id", id))
	go func() {
		defer s.sessions.Release()
		sess.run(s.ctx)
	}()
}

// liveSession is one browser's socket.
type liveSession struct {
	id     string
	conn   *websocket.Conn
	store  *core.Store
	send   chan ServerMessage
	logger *slog.Logger
}

func newLiveSession(id string, conn *websocket.Conn, store *core.Store, logger *slog.Logger) *liveSession {
	return &liveSession{
		id:     id,
		conn:   conn,
		store:  store,
		send:   make(chan ServerMessage, sendBufferSize),
		logger: logger,
	}
}

// run serves the session until the peer disconnects or ctx is cancelled.
func (c *liveSession) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.logger.Info("live session opened")
	c.trySend(ServerMessage{Type: MessageTypeHello, SessionID: c.id, LoadID: c.store.LoadID()})

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.writePump(ctx)
	}()

	c.readPump()
	cancel()
	<-done

	c.logger.Info("live session closed")
}

// readPump reads selections until the connection fails. Closing the
// connection from writePump unblocks it.
func (c *liveSession) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.logger.Warn("live session read error", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError(fmt.Errorf("invalid message: %w", err))
			continue
		}
		c.handleMessage(msg)
	}
}

// writePump sends queued messages and keepalive pings.
func (c *liveSession) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return

		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn("live session write error", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage answers one client message.
func (c *liveSession) handleMessage(msg ClientMessage) {
	switch msg.Type {
	case MessageTypeSelect:
		if msg.Selection == nil {
			c.sendError(fmt.Errorf("invalid message: select without selection"))
			return
		}
		c.sendView(*msg.Selection)
	case MessageTypePing:
		c.trySend(ServerMessage{Type: MessageTypePong})
	default:
		c.sendError(fmt.Errorf("unknown message type %q", msg.Type))
	}
}

// sendView computes the view for a complete selection and queues it with
// its rendered chart.
func (c *liveSession) sendView(sel core.Selection) {
	view, err := c.store.ComputeView(sel)
	if err != nil {
		c.sendError(err)
		return
	}

	var buf bytes.Buffer
	if err := templates.Chart(view).Render(context.Background(), &buf); err != nil {
		c.sendError(err)
		return
	}

	c.trySend(ServerMessage{
		Type:      MessageTypeView,
		Selection: &sel,
		View:      &view,
		ChartHTML: buf.String(),
	})
}

func (c *liveSession) sendError(err error) {
	msg := core.MapError(err)
	c.logger.Debug("live session error", "error", err, "code", msg.Code)

	resp := newErrorResponse(msg)
	c.trySend(ServerMessage{Type: MessageTypeError, Error: &resp})
}

// trySend queues a message without blocking. A full buffer means the
// client is not reading; the message is dropped.
func (c *liveSession) trySend(msg ServerMessage) bool {
	msg.Timestamp = time.Now()
	select {
	case c.send <- msg:
		return true
	default:
		c.logger.Warn("live session send buffer full, dropping message", "type", msg.Type)
		return false
	}
}
