package chat

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConn struct {
	mu     sync.Mutex
	frames []string
	broken bool
	closed bool
}

func (c *stubConn) WriteText(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return errors.New("write to dead peer")
	}
	c.frames = append(c.frames, string(data))
	return nil
}

func (c *stubConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *stubConn) got() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.frames...)
}

func TestBroadcastReachesCurrentMembersOnly(t *testing.T) {
	reg := NewRegistry()
	a, b := &stubConn{}, &stubConn{}

	reg.Join("general", a)
	reg.Join("general", b)
	reg.Broadcast("general", []byte("hello"))

	reg.Leave("general", b)
	reg.Broadcast("general", []byte("world"))

	assert.Equal(t, []string{"hello", "world"}, a.got())
	assert.Equal(t, []string{"hello"}, b.got())
}

func TestBroadcastDeliversInRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	var order []string
	var mu sync.Mutex

	conns := make([]*orderConn, 3)
	for i, name := range []string{"first", "second", "third"} {
		conns[i] = &orderConn{name: name, order: &order, mu: &mu}
		reg.Join("room", conns[i])
	}
	reg.Broadcast("room", []byte("x"))

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

type orderConn struct {
	name  string
	order *[]string
	mu    *sync.Mutex
}

func (c *orderConn) WriteText([]byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.order = append(*c.order, c.name)
	return nil
}

func (c *orderConn) Close() error { return nil }

func TestBroadcastSkipsDeadPeer(t *testing.T) {
	reg := NewRegistry()
	a := &stubConn{}
	dead := &stubConn{broken: true}
	b := &stubConn{}

	reg.Join("room", a)
	reg.Join("room", dead)
	reg.Join("room", b)
	reg.Broadcast("room", []byte("still here"))

	assert.Equal(t, []string{"still here"}, a.got())
	assert.Equal(t, []string{"still here"}, b.got())
	assert.Empty(t, dead.got())
}

func TestBroadcastEmptyChannelIsNoop(t *testing.T) {
	reg := NewRegistry()
	reg.Broadcast("nobody-home", []byte("echo"))
}

func TestLeaveIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	a := &stubConn{}

	reg.Join("room", a)
	reg.Leave("room", a)
	reg.Leave("room", a)
	reg.Leave("other", a)

	reg.Broadcast("room", []byte("x"))
	assert.Empty(t, a.got())
}

func TestRebindNewestWins(t *testing.T) {
	reg := NewRegistry()
	old := &stubConn{}
	fresh := &stubConn{}

	reg.Bind("alice", old)
	reg.Bind("alice", fresh)
	reg.Forward("alice", []byte("offer"))

	require.Empty(t, old.got())
	assert.Equal(t, []string{"offer"}, fresh.got())
}

func TestStaleUnbindKeepsNewBinding(t *testing.T) {
	reg := NewRegistry()
	old := &stubConn{}
	fresh := &stubConn{}

	reg.Bind("alice", old)
	reg.Bind("alice", fresh)
	// The old socket tears down after the reconnect already rebound.
	reg.Unbind("alice", old)
	reg.Forward("alice", []byte("answer"))

	assert.Equal(t, []string{"answer"}, fresh.got())
}

func TestForwardToUnboundTargetDrops(t *testing.T) {
	reg := NewRegistry()
	reg.Forward("ghost", []byte("offer"))

	a := &stubConn{}
	reg.Bind("alice", a)
	reg.Unbind("alice", a)
	reg.Forward("alice", []byte("offer"))
	assert.Empty(t, a.got())
}

func TestForwardSurvivesDeadTarget(t *testing.T) {
	reg := NewRegistry()
	dead := &stubConn{broken: true}
	reg.Bind("alice", dead)
	reg.Forward("alice", []byte("ice"))

	// The binding stays; a failed send never evicts.
	fresh := &stubConn{}
	reg.Bind("alice", fresh)
	reg.Forward("alice", []byte("ice"))
	assert.Equal(t, []string{"ice"}, fresh.got())
}
