// File: services/broadcast/hub.go
package broadcast

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"consultly/models"
)

const (
	// SweepInterval is how often the hub scans for stale connections.
	SweepInterval = 10 * time.Second
	// StaleTimeout is how long a connection may go without a successful
	// write before the sweep removes it.
	StaleTimeout = 30 * time.Second
	// HeartbeatInterval is how often a comment frame is written to each
	// connection to keep intermediary proxies from timing it out.
	HeartbeatInterval = 15 * time.Second

	// frameBuffer bounds the per-connection outbound queue. A subscriber
	// that cannot drain it is treated as a failed write and dropped;
	// reconnection plus a full-snapshot fetch makes it whole.
	frameBuffer = 8
)

// PingFrame is the SSE comment frame used as keep-alive.
var PingFrame = []byte(": ping\n\n")

type subscriberKey struct {
	subjectID string
	role      models.Role
}

// Connection is one open subscription. The serving goroutine drains Frames
// and reports liveness via Touch; the hub side closes Done when the
// connection is removed.
type Connection struct {
	key    subscriberKey
	frames chan []byte
	done   chan struct{}
	once   sync.Once

	mu       sync.Mutex
	lastPing time.Time
}

// Frames returns the outbound frame queue for this connection.
func (c *Connection) Frames() <-chan []byte { return c.frames }

// Done is closed when the hub removes the connection.
func (c *Connection) Done() <-chan struct{} { return c.done }

// Touch records a successful write, deferring the stale sweep.
func (c *Connection) Touch() {
	c.mu.Lock()
	c.lastPing = time.Now()
	c.mu.Unlock()
}

func (c *Connection) staleSince(cutoff time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPing.Before(cutoff)
}

func (c *Connection) close() {
	c.once.Do(func() { close(c.done) })
}

// Hub is the process-local connection registry. It assumes a single
// authoritative process: every mutation in this process reaches every open
// connection, and nothing else does. Scaling beyond one instance requires
// replacing it with an external pub/sub broker.
//
// The hub is explicitly constructed and injected; it has no package-level
// state. Run starts the sweep, Shutdown drains all connections.
type Hub struct {
	logger *zap.Logger

	mu    sync.RWMutex
	conns map[subscriberKey]map[*Connection]struct{}

	stop     chan struct{}
	stopOnce sync.Once
}

// NewHub constructs a Hub. Call Run to start the stale-connection sweep.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		conns:  make(map[subscriberKey]map[*Connection]struct{}),
		stop:   make(chan struct{}),
	}
}

// Run sweeps stale connections until Shutdown is called. It runs on its own
// timer and never blocks request paths.
func (h *Hub) Run() {
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			h.sweep()
		}
	}
}

// Subscribe registers a connection for the identity. The caller owns the
// serving loop and must call Unsubscribe when it returns.
func (h *Hub) Subscribe(identity models.Identity) *Connection {
	conn := &Connection{
		key:      subscriberKey{subjectID: identity.SubjectID, role: identity.Role},
		frames:   make(chan []byte, frameBuffer),
		done:     make(chan struct{}),
		lastPing: time.Now(),
	}

	// The immediate keep-alive lets clients detect a live stream before the
	// first mutation.
	conn.frames <- PingFrame

	h.mu.Lock()
	set, ok := h.conns[conn.key]
	if !ok {
		set = make(map[*Connection]struct{})
		h.conns[conn.key] = set
	}
	set[conn] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("subscription opened",
		zap.String("subject", identity.SubjectID),
		zap.String("role", string(identity.Role)))
	return conn
}

// Unsubscribe removes a connection. Safe to call more than once.
func (h *Hub) Unsubscribe(conn *Connection) {
	h.mu.Lock()
	h.remove(conn)
	h.mu.Unlock()
}

// Publish sends the snapshot to every open connection registered under
// exactly (identity.SubjectID, identity.Role). Delivery is at-most-once and
// best-effort: a connection that cannot accept the frame is removed inline,
// and the subscriber recovers by reconnecting and fetching full state.
func (h *Hub) Publish(identity models.Identity, snapshot interface{}) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		h.logger.Error("failed to marshal snapshot", zap.Error(err))
		return
	}
	frame := make([]byte, 0, len(data)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, data...)
	frame = append(frame, "\n\n"...)

	key := subscriberKey{subjectID: identity.SubjectID, role: identity.Role}

	h.mu.Lock()
	defer h.mu.Unlock()
	delivered := 0
	for conn := range h.conns[key] {
		select {
		case conn.frames <- frame:
			delivered++
		default:
			h.logger.Warn("subscriber queue full, dropping connection",
				zap.String("subject", key.subjectID),
				zap.String("role", string(key.role)))
			h.remove(conn)
		}
	}
	h.logger.Debug("published snapshot",
		zap.String("subject", key.subjectID),
		zap.String("role", string(key.role)),
		zap.Int("connections", delivered))
}

// ConnectionCount reports the number of open connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.conns {
		n += len(set)
	}
	return n
}

// Shutdown stops the sweep and drains every open connection.
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() { close(h.stop) })

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.conns {
		for conn := range set {
			conn.close()
		}
	}
	h.conns = make(map[subscriberKey]map[*Connection]struct{})
}

// sweep removes connections that have not written successfully within
// StaleTimeout, bounding memory growth from abandoned connections.
func (h *Hub) sweep() {
	cutoff := time.Now().Add(-StaleTimeout)

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.conns {
		for conn := range set {
			if conn.staleSince(cutoff) {
				h.logger.Info("removing stale connection",
					zap.String("subject", conn.key.subjectID),
					zap.String("role", string(conn.key.role)))
				h.remove(conn)
			}
		}
	}
}

// remove must be called with h.mu held.
func (h *Hub) remove(conn *Connection) {
	set, ok := h.conns[conn.key]
	if !ok {
		return
	}
	if _, ok := set[conn]; !ok {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(h.conns, conn.key)
	}
	conn.close()
}
