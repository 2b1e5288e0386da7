package websocket

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/pkg/logging"
	"github.com/iamasit07/connect4/pkg/useragent"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

const (
	MessageSnapshot = "snapshot"
	MessageClosed   = "closed"
)

type WatchMessage struct {
	Type     string           `json:"type"`
	Snapshot *domain.Snapshot `json:"snapshot,omitempty"`
	Message  string           `json:"message,omitempty"`
}

// Hub fans game snapshots out to read-only spectators, one room per game.
type Hub struct {
	rooms    map[string]map[*spectator]struct{}
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHub builds a hub; checkOrigin may be nil to accept any origin.
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Hub{
		rooms: make(map[string]map[*spectator]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin:     checkOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logging.Component("watch"),
	}
}

// spectator owns one connection. Only writePump writes to it.
type spectator struct {
	conn *websocket.Conn
	send chan WatchMessage

	mu     sync.Mutex
	closed bool
}

// enqueue reports false when the queue is full or already closed.
func (s *spectator) enqueue(msg WatchMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- msg:
		return true
	default:
		return false
	}
}

func (s *spectator) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

// ServeWatch upgrades the request and streams gameID to it until the room
// closes or the client goes away. Anything the client sends is discarded.
func (h *Hub) ServeWatch(w http.ResponseWriter, r *http.Request, gameID string, initial *domain.Snapshot) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("game", gameID).Msg("upgrade error")
		return
	}

	s := &spectator{conn: conn, send: make(chan WatchMessage, sendBuffer)}
	h.join(gameID, s)
	h.logger.Info().Str("game", gameID).Str("client", useragent.Describe(r)).Msg("spectator connected")
	if initial != nil {
		s.enqueue(WatchMessage{Type: MessageSnapshot, Snapshot: initial})
	}

	go s.writePump()
	s.readPump()

	h.leave(gameID, s)
	s.finish()
}

func (h *Hub) join(gameID string, s *spectator) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[gameID]
	if !ok {
		room = make(map[*spectator]struct{})
		h.rooms[gameID] = room
	}
	room[s] = struct{}{}
	h.logger.Debug().Str("game", gameID).Int("spectators", len(room)).Msg("spectator joined")
}

func (h *Hub) leave(gameID string, s *spectator) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[gameID]
	if !ok {
		return
	}
	delete(room, s)
	if len(room) == 0 {
		delete(h.rooms, gameID)
	}
}

// Broadcast queues snap for every spectator of gameID. A spectator whose
// queue is full is dropped instead of stalling the game.
func (h *Hub) Broadcast(gameID string, snap domain.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.rooms[gameID] {
		copied := snap
		if !s.enqueue(WatchMessage{Type: MessageSnapshot, Snapshot: &copied}) {
			h.logger.Warn().Str("game", gameID).Msg("dropping slow spectator")
			delete(h.rooms[gameID], s)
			s.finish()
		}
	}
}

// CloseRoom tells every spectator of gameID the feed is over and
// disconnects them.
func (h *Hub) CloseRoom(gameID string) {
	h.mu.Lock()
	room := h.rooms[gameID]
	delete(h.rooms, gameID)
	h.mu.Unlock()

	for s := range room {
		s.enqueue(WatchMessage{Type: MessageClosed, Message: "game closed"})
		s.finish()
	}
}

func (h *Hub) SpectatorCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[gameID])
}

func (s *spectator) readPump() {
	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *spectator) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
