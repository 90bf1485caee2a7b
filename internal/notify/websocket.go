package notify

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/zulvanavito/Plastira/internal/models"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// inbound is a client-to-server message
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// JoinedPayload confirms a room join
type JoinedPayload struct {
	Room string `json:"room"`
}

// client is one websocket connection registered as a Session
type client struct {
	id   string
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
	rooms  []string
}

func (c *client) ID() string { return c.id }

// Send never blocks; a full buffer or closed client drops the payload
func (c *client) Send(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *client) joined(room string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.rooms {
		if r == room {
			return true
		}
	}
	c.rooms = append(c.rooms, room)
	return false
}

func (c *client) joinedRooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.rooms...)
}

// WSServer upgrades authenticated requests into notification sessions
type WSServer struct {
	registry   Registry
	upgrader   websocket.Upgrader
	sendBuffer int
	logger     *zap.Logger
}

// NewWSServer creates a WSServer. allowedOrigins containing "*" accepts any origin.
func NewWSServer(registry Registry, allowedOrigins []string, sendBuffer int, logger *zap.Logger) *WSServer {
	if sendBuffer <= 0 {
		sendBuffer = 16
	}
	return &WSServer{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		sendBuffer: sendBuffer,
		logger:     logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// Serve upgrades the connection and blocks until the session ends
func (s *WSServer) Serve(w http.ResponseWriter, r *http.Request, principal models.Principal) error {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, s.sendBuffer),
	}
	logger := s.logger.With(zap.String("session", c.id), zap.String("principal", principal.ID.Hex()))
	logger.Debug("Notification session opened")

	s.join(c, AllRoom)
	go s.writePump(c)
	s.readPump(c, principal, logger)

	for _, room := range c.joinedRooms() {
		s.registry.Unregister(room, c)
	}
	c.close()
	logger.Debug("Notification session closed")
	return nil
}

func (s *WSServer) join(c *client, room string) {
	if !c.joined(room) {
		s.registry.Register(room, c)
	}
}

func (s *WSServer) reply(c *client, n models.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}
	c.Send(payload)
}

func (s *WSServer) readPump(c *client, principal models.Principal, logger *zap.Logger) {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg inbound
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Notification session read failed", zap.Error(err))
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				s.reply(c, models.Notification{Event: models.EventError, Data: "malformed message"})
				continue
			}
			return
		}

		switch msg.Event {
		case models.EventJoinRoom:
			var room string
			if err := json.Unmarshal(msg.Data, &room); err != nil || room != principal.ID.Hex() {
				s.reply(c, models.Notification{Event: models.EventError, Data: "cannot join another user's room"})
				continue
			}
			s.join(c, room)
			if principal.IsAdmin() {
				s.join(c, AdminsRoom)
			}
			s.reply(c, models.Notification{Event: models.EventJoined, Data: JoinedPayload{Room: room}})
		default:
			s.reply(c, models.Notification{Event: models.EventError, Data: "unknown event"})
		}
	}
}

func (s *WSServer) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
