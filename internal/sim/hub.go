package sim

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/padbridge/padbridge/internal/gamepad"
)

const (
	sendQueueSize   = 64
	noticeQueueSize = 256
	maxFrameSize    = 256 * 1024
)

// NoticeKind classifies hub activity for the TUI and headless logs.
type NoticeKind int

const (
	NoticeClientConnected NoticeKind = iota
	NoticeClientDisconnected
	NoticeBatchApplied
	NoticeBatchRejected
	NoticeDemoBatch
)

var noticeNames = map[NoticeKind]string{
	NoticeClientConnected:    "client_connected",
	NoticeClientDisconnected: "client_disconnected",
	NoticeBatchApplied:       "batch_applied",
	NoticeBatchRejected:      "batch_rejected",
	NoticeDemoBatch:          "demo_batch",
}

func (k NoticeKind) String() string {
	if s, ok := noticeNames[k]; ok {
		return s
	}
	return "unknown"
}

// Notice is one hub activity record. Delivery is best-effort: when no
// consumer keeps up, notices are dropped rather than stalling the hub.
type Notice struct {
	Kind     NoticeKind
	ClientID string
	Events   int
	Detail   string
	Time     time.Time
}

// ack is the frame the hub writes back after each inbound frame.
type ack struct {
	OK       bool   `json:"ok"`
	Received int    `json:"received,omitempty"`
	Error    string `json:"error,omitempty"`
}

// eventFrame is the inbound wire shape: one frame per bridge batch.
type eventFrame struct {
	Events []json.RawMessage `json:"events"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Hub accepts bridge connections, validates inbound frames against the
// taxonomy, and applies valid batches to the shared pad state.
type Hub struct {
	state    *PadState
	log      zerolog.Logger
	maxConns int
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client

	notices chan Notice
}

// NewHub builds a hub around the given pad. maxConns caps simultaneous
// bridge connections; zero or negative means a single-digit default.
func NewHub(state *PadState, maxConns int, logger zerolog.Logger) *Hub {
	if maxConns <= 0 {
		maxConns = 8
	}
	return &Hub{
		state:    state,
		log:      logger,
		maxConns: maxConns,
		// The hub binds to loopback for development; origin checks
		// would only lock out the bridge's own dialer.
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		clients:  make(map[string]*client),
		notices:  make(chan Notice, noticeQueueSize),
	}
}

// Routes registers the hub's endpoints on mux.
func (h *Hub) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.handleWS)
	mux.HandleFunc("/healthz", h.handleHealthz)
}

// Notices is the hub activity feed consumed by the TUI or, in headless
// mode, the log loop.
func (h *Hub) Notices() <-chan Notice {
	return h.notices
}

// Notify publishes one notice, dropping it when the feed is full.
func (h *Hub) Notify(n Notice) {
	if n.Time.IsZero() {
		n.Time = time.Now()
	}
	select {
	case h.notices <- n:
	default:
	}
}

// ClientCount reports the number of connected bridges.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	snap := h.state.Snapshot()
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":         "ok",
		"clients":        h.ClientCount(),
		"eventsApplied":  snap.EventsApplied,
		"batchesApplied": snap.BatchesApplied,
	})
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if len(h.clients) >= h.maxConns {
		h.mu.Unlock()
		h.log.Warn().Int("max", h.maxConns).Msg("connection limit reached, refusing bridge")
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}
	h.mu.Unlock()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}

	// Re-check the cap under the insert lock: simultaneous handshakes
	// can all pass the pre-upgrade check.
	h.mu.Lock()
	if len(h.clients) >= h.maxConns {
		h.mu.Unlock()
		h.log.Warn().Int("max", h.maxConns).Msg("connection limit reached, dropping upgraded bridge")
		conn.Close()
		return
	}
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()

	h.log.Info().Str("client", c.id).Str("remote", r.RemoteAddr).Int("clients", n).Msg("bridge connected")
	h.Notify(Notice{Kind: NoticeClientConnected, ClientID: c.id})

	go h.writePump(c)
	go h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer h.drop(c)
	c.conn.SetReadLimit(maxFrameSize)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		h.handleFrame(c, data)
	}
}

// handleFrame validates one inbound frame with the same rules the
// bridge enforces, applies it on success, and acks either way.
func (h *Hub) handleFrame(c *client, data []byte) {
	var frame eventFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		h.log.Warn().Str("client", c.id).Err(err).Msg("undecodable frame")
		h.reply(c, ack{OK: false, Error: "frame must be a JSON object with an events array"})
		h.Notify(Notice{Kind: NoticeBatchRejected, ClientID: c.id, Detail: "undecodable frame"})
		return
	}
	if len(frame.Events) == 0 {
		h.reply(c, ack{OK: false, Error: "events must not be empty"})
		h.Notify(Notice{Kind: NoticeBatchRejected, ClientID: c.id, Detail: "empty batch"})
		return
	}

	batch, err := gamepad.ValidateBatch(frame.Events)
	if err != nil {
		h.log.Warn().Str("client", c.id).Err(err).Msg("batch rejected")
		h.reply(c, ack{OK: false, Error: err.Error()})
		h.Notify(Notice{Kind: NoticeBatchRejected, ClientID: c.id, Detail: err.Error()})
		return
	}

	h.state.ApplyBatch(batch)
	h.reply(c, ack{OK: true, Received: len(batch)})
	h.Notify(Notice{Kind: NoticeBatchApplied, ClientID: c.id, Events: len(batch), Detail: describeBatch(batch)})
	h.log.Debug().Str("client", c.id).Int("events", len(batch)).Msg("batch applied")
}

// describeBatch renders a short event summary for the log view, e.g.
// "button A=true, axis leftX=0.5".
func describeBatch(batch gamepad.Batch) string {
	const maxShown = 4
	out := ""
	for i, ev := range batch {
		if i == maxShown {
			out += ", …"
			break
		}
		if i > 0 {
			out += ", "
		}
		out += ev.Type.String() + " " + ev.Code + "=" + ev.Value.String()
	}
	return out
}

func (h *Hub) reply(c *client, a ack) {
	data, err := json.Marshal(a)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
		h.log.Warn().Str("client", c.id).Msg("ack queue full, dropping ack")
	}
}

func (h *Hub) writePump(c *client) {
	for {
		select {
		case data := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.drop(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

// drop retires one client. The first caller for a given client wins.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	n := len(h.clients)
	h.mu.Unlock()

	close(c.done)
	c.conn.Close()
	h.log.Info().Str("client", c.id).Int("clients", n).Msg("bridge disconnected")
	h.Notify(Notice{Kind: NoticeClientDisconnected, ClientID: c.id})
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.drop(c)
	}
}
