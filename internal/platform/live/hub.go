// Package live serves a spectator feed of running climbs: game events are
// pushed as JSON over websockets and a summary is available at /state.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/skyhop/internal/games/skyhop"
	"github.com/vovakirdan/skyhop/internal/games/skyhop/sim"
)

const (
	writeWait    = 5 * time.Second
	sendBuffer   = 256
	shutdownWait = 5 * time.Second
)

// Message is one event as sent to spectators.
type Message struct {
	Type    string    `json:"type"`
	Time    time.Time `json:"time"`
	Height  int       `json:"height,omitempty"`
	Text    string    `json:"text,omitempty"`
	Body    string    `json:"body,omitempty"`
	Sound   string    `json:"sound,omitempty"`
	PowerUp string    `json:"powerup,omitempty"`
	Color   string    `json:"color,omitempty"`
	Amount  int       `json:"amount,omitempty"`
	X       float64   `json:"x,omitempty"`
	Y       float64   `json:"y,omitempty"`
}

// State summarizes what the feed has seen.
type State struct {
	Height      int    `json:"height"`
	Best        int    `json:"best"`
	Checkpoints int    `json:"checkpoints"`
	Collected   int    `json:"collected"`
	Victory     bool   `json:"victory"`
	Events      uint64 `json:"events"`
	Clients     int    `json:"clients"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans game events out to websocket spectators. It is an effect sink:
// attach it next to the terminal effects and every event of the run is
// broadcast. Particle events stay local.
type Hub struct {
	skyhop.NopEffects

	mu       sync.Mutex
	clients  map[*client]struct{}
	state    State
	logger   *log.Logger
	upgrader websocket.Upgrader
	now      func() time.Time
}

// NewHub creates an empty hub. A nil logger discards output.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Spectator pages may be served from anywhere.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		now: time.Now,
	}
}

// Observe turns a simulation event into a broadcast message.
func (h *Hub) Observe(ev sim.Event) {
	if ev.Kind == sim.EventParticles {
		return
	}
	msg := Message{Type: ev.Kind.String(), Time: h.now().UTC()}

	h.mu.Lock()
	h.state.Events++
	switch ev.Kind {
	case sim.EventSound:
		msg.Sound = ev.Sound.String()
	case sim.EventFloatingText:
		msg.Text, msg.X, msg.Y, msg.Color = ev.Text, ev.X, ev.Y, ev.Color.String()
	case sim.EventModal:
		msg.Text, msg.Body = ev.Text, ev.Body
	case sim.EventScore:
		msg.Height = ev.Height
		h.state.Height = ev.Height
		h.state.Best = max(h.state.Best, ev.Height)
	case sim.EventCheckpoint:
		msg.Text, msg.Height = ev.Text, ev.Height
		h.state.Checkpoints++
	case sim.EventVictory:
		msg.Height = ev.Height
		h.state.Victory = true
	case sim.EventPowerUp:
		msg.PowerUp = ev.PowerUp.Info().ID
	case sim.EventCollect:
		msg.Amount = ev.Amount
		h.state.Collected += ev.Amount
	case sim.EventRegenerated:
		msg.Height = ev.Height
	}
	h.mu.Unlock()

	h.Broadcast(msg)
}

// Broadcast sends a message to every spectator. Spectators that cannot keep
// up are dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("encode live message", "type", msg.Type, "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.removeLocked(c)
			h.logger.Warn("dropping slow spectator", "remote", c.conn.RemoteAddr().String())
		}
	}
}

// State returns the current summary.
func (h *Hub) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.state
	s.Clients = len(h.clients)
	return s
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Handler serves /events (websocket) and /state (JSON).
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", h.serveEvents)
	mux.HandleFunc("/state", h.serveState)
	return mux
}

func (h *Hub) serveState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.State()); err != nil {
		h.logger.Warn("write live state", "err", err)
	}
}

func (h *Hub) serveEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("spectator connected", "remote", conn.RemoteAddr().String())

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards incoming frames and unregisters the spectator when the
// connection closes.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.mu.Lock()
		h.removeLocked(c)
		h.mu.Unlock()
		h.logger.Info("spectator disconnected", "remote", c.conn.RemoteAddr().String())
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("spectator read error", "err", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// removeLocked unregisters a client. Callers hold h.mu.
func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// Close disconnects every spectator.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// ListenAndServe serves the feed on addr until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		h.logger.Info("live feed listening", "address", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	h.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
