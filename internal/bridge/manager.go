// Package bridge owns the outbound WebSocket link to the input simulator.
//
// A Manager holds at most one connection, redials on a fixed interval
// while the link is down, and forwards event batches best-effort. Callers
// never block on link state: frames submitted while the link is down are
// dropped and counted, not queued for later.
package bridge

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/padbridge/padbridge/internal/gamepad"
)

const (
	defaultRetryInterval = 5 * time.Second
	defaultDialTimeout   = 5 * time.Second
	defaultWriteTimeout  = 10 * time.Second

	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxInboundSize = 32 * 1024
	sendQueueSize  = 64
)

// eventFrame is the wire shape the simulator consumes. One frame per
// accepted batch.
type eventFrame struct {
	Events gamepad.Batch `json:"events"`
}

// Stats is a point-in-time snapshot of link health.
type Stats struct {
	State         State   `json:"state"`
	URL           string  `json:"url"`
	FramesSent    uint64  `json:"framesSent"`
	FramesDropped uint64  `json:"framesDropped"`
	DialFailures  uint64  `json:"dialFailures"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
	LastError     string  `json:"lastError,omitempty"`
}

// Options configure a Manager. Zero durations fall back to the package
// defaults.
type Options struct {
	URL           string
	RetryInterval time.Duration
	DialTimeout   time.Duration
	WriteTimeout  time.Duration
	Logger        zerolog.Logger
}

// wsConn bundles one live connection with its outbound queue. The done
// channel stops the write pump without closing the queue, so late
// enqueuers can never hit a closed channel.
type wsConn struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Manager maintains the single simulator connection.
type Manager struct {
	url           string
	retryInterval time.Duration
	writeTimeout  time.Duration
	dialer        *websocket.Dialer
	log           zerolog.Logger

	mu         sync.Mutex
	cur        *wsConn
	state      State
	retryTimer *time.Timer
	closed     bool

	framesSent     uint64
	framesDropped  uint64
	dialFails      uint64
	connectedSince time.Time
	lastErr        string
}

// New builds a Manager for the given simulator endpoint. The manager
// starts disconnected; call Connect to begin dialing.
func New(opts Options) *Manager {
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = defaultRetryInterval
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	return &Manager{
		url:           opts.URL,
		retryInterval: opts.RetryInterval,
		writeTimeout:  opts.WriteTimeout,
		dialer:        &websocket.Dialer{HandshakeTimeout: opts.DialTimeout},
		log:           opts.Logger,
	}
}

// Connect starts a dial attempt in the background. Safe to call at any
// time from any goroutine: while a dial is in flight or a connection is
// live it does nothing.
func (m *Manager) Connect() {
	m.mu.Lock()
	if m.closed || m.state != Disconnected {
		m.mu.Unlock()
		return
	}
	m.state = Connecting
	m.mu.Unlock()

	go m.dial()
}

func (m *Manager) dial() {
	m.log.Debug().Str("url", m.url).Msg("dialing simulator")
	conn, _, err := m.dialer.Dial(m.url, nil)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		m.state = Disconnected
		m.lastErr = err.Error()
		m.dialFails++
		m.scheduleRetryLocked()
		m.mu.Unlock()
		m.log.Warn().Err(err).Dur("retry_in", m.retryInterval).Msg("simulator dial failed")
		return
	}

	c := &wsConn{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}
	m.cur = c
	m.state = Connected
	m.connectedSince = time.Now()
	m.lastErr = ""
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
	m.mu.Unlock()

	m.log.Info().Str("url", m.url).Msg("simulator connected")
	go m.readLoop(c)
	go m.writePump(c)
}

// scheduleRetryLocked arms the reconnect timer unless one is already
// pending. The fixed interval and the single-timer rule keep retry
// pressure constant no matter how often Connect is poked. Callers hold
// m.mu.
func (m *Manager) scheduleRetryLocked() {
	if m.retryTimer != nil || m.closed {
		return
	}
	m.retryTimer = time.AfterFunc(m.retryInterval, func() {
		m.mu.Lock()
		m.retryTimer = nil
		m.mu.Unlock()
		m.Connect()
	})
}

// Send queues one batch for transmission as a single text frame. Delivery
// is best-effort: when the link is down or the queue is full the frame is
// dropped and counted, and the caller never blocks or sees an error.
func (m *Manager) Send(batch gamepad.Batch) {
	data, err := json.Marshal(eventFrame{Events: batch})
	if err != nil {
		m.log.Error().Err(err).Msg("event frame marshal failed")
		return
	}

	m.mu.Lock()
	c := m.cur
	if m.state != Connected || c == nil {
		m.framesDropped++
		n := m.framesDropped
		m.mu.Unlock()
		m.log.Debug().Int("events", len(batch)).Uint64("dropped_total", n).Msg("simulator offline, frame dropped")
		return
	}
	// Enqueue under m.mu so teardown cannot retire c in between.
	select {
	case c.send <- data:
		m.mu.Unlock()
	default:
		m.framesDropped++
		m.mu.Unlock()
		m.log.Warn().Int("events", len(batch)).Msg("send queue full, frame dropped")
	}
}

func (m *Manager) writePump(c *wsConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(m.writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				m.log.Warn().Err(err).Msg("frame write failed")
				m.teardown(c, err)
				return
			}
			m.mu.Lock()
			m.framesSent++
			m.mu.Unlock()
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(m.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				m.teardown(c, err)
				return
			}
		case <-c.done:
			return
		}
	}
}

func (m *Manager) readLoop(c *wsConn) {
	c.conn.SetReadLimit(maxInboundSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			m.teardown(c, err)
			return
		}
		m.logInbound(data)
	}
}

// Inbound traffic is diagnostic only. The simulator acks frames and may
// push status blobs; none of it changes bridge state.
func (m *Manager) logInbound(data []byte) {
	if !json.Valid(data) {
		m.log.Debug().Int("bytes", len(data)).Msg("inbound frame is not JSON, ignored")
		return
	}
	m.log.Debug().RawJSON("frame", data).Msg("inbound frame")
}

// teardown retires one connection. Only the first caller for a given
// connection wins; later callers (read and write loops failing together)
// see the identity mismatch and return.
func (m *Manager) teardown(c *wsConn, err error) {
	m.mu.Lock()
	if m.cur != c {
		m.mu.Unlock()
		c.conn.Close()
		return
	}
	m.cur = nil
	m.state = Disconnected
	m.connectedSince = time.Time{}
	if err != nil {
		m.lastErr = err.Error()
	}
	closed := m.closed
	if !closed {
		m.scheduleRetryLocked()
	}
	m.mu.Unlock()

	close(c.done)
	c.conn.Close()
	if !closed {
		m.log.Warn().Err(err).Dur("retry_in", m.retryInterval).Msg("simulator connection lost")
	}
}

// Close shuts the manager down for good: the live connection is closed
// and no further dials or retries happen. Close is idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
	c := m.cur
	m.cur = nil
	m.state = Disconnected
	m.mu.Unlock()

	if c != nil {
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		close(c.done)
		c.conn.Close()
	}
	m.log.Debug().Msg("bridge closed")
}

// State reports the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Stats reports link health counters for the status resource.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Stats{
		State:         m.state,
		URL:           m.url,
		FramesSent:    m.framesSent,
		FramesDropped: m.framesDropped,
		DialFailures:  m.dialFails,
		LastError:     m.lastErr,
	}
	if m.state == Connected && !m.connectedSince.IsZero() {
		s.UptimeSeconds = time.Since(m.connectedSince).Seconds()
	}
	return s
}
