package chat

import (
	"sync"

	"AstralLink/logger"
)

// Conn is the opaque bidirectional text-frame transport the registry fans out
// to. Live sockets implement it via wsPeer; tests substitute doubles.
type Conn interface {
	WriteText(data []byte) error
	Close() error
}

// Registry holds the two in-memory connection maps: channel broadcast sets
// and the per-user signaling bindings. Purely in-memory; rebuilt from scratch
// on restart, reflects only currently open sockets.
type Registry struct {
	mu       sync.RWMutex
	channels map[string][]Conn // channel id -> conns in registration order
	signals  map[string]Conn   // user id -> most recent signaling conn
}

func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[string][]Conn),
		signals:  make(map[string]Conn),
	}
}

// Join registers a connection under a channel. No auth happens here; the
// socket boundary is the gate.
func (r *Registry) Join(channelID string, c Conn) {
	if channelID == "" || c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[channelID] = append(r.channels[channelID], c)
}

// Leave removes the connection from the channel set; removing a non-member is
// a silent no-op.
func (r *Registry) Leave(channelID string, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.channels[channelID]
	for i, x := range set {
		if x == c {
			set = append(set[:i], set[i+1:]...)
			break
		}
	}
	if len(set) == 0 {
		delete(r.channels, channelID)
	} else {
		r.channels[channelID] = set
	}
}

// Broadcast delivers payload to every connection currently in the channel, in
// registration order. Sends are isolated best-effort: a dead peer is logged
// and skipped, never evicted here and never surfaced to the broadcaster.
func (r *Registry) Broadcast(channelID string, payload []byte) {
	r.mu.RLock()
	snapshot := append([]Conn(nil), r.channels[channelID]...)
	r.mu.RUnlock()

	for _, c := range snapshot {
		if err := c.WriteText(payload); err != nil {
			logger.Warnf("[Registry] broadcast send channel=%s err=%v", channelID, err)
		}
	}
}

// Bind maps userID to its signaling connection, overwriting any previous
// binding in one step; Forward never observes a gap during rebind.
func (r *Registry) Bind(userID string, c Conn) {
	if userID == "" || c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals[userID] = c
}

// Unbind removes the binding only when the stored handle is the one going
// away, so a stale connection's teardown cannot erase a newer binding.
func (r *Registry) Unbind(userID string, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.signals[userID]; ok && cur == c {
		delete(r.signals, userID)
	}
}

// Forward delivers payload verbatim to the target's signaling connection.
// Fire-and-forget: no binding means the message is dropped.
func (r *Registry) Forward(targetUserID string, payload []byte) {
	r.mu.RLock()
	c := r.signals[targetUserID]
	r.mu.RUnlock()

	if c == nil {
		return
	}
	if err := c.WriteText(payload); err != nil {
		logger.Warnf("[Registry] forward send target=%s err=%v", targetUserID, err)
	}
}
