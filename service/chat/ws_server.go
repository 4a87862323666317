package chat

import (
	"net"
	"net/http"
	"sync"
	"time"

	"AstralLink/logger"
	"AstralLink/tools/ids"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096, CheckOrigin: func(r *http.Request) bool { return true }}

const writeWait = 5 * time.Second

// wsPeer adapts a gorilla conn to the registry's Conn. gorilla allows one
// concurrent writer, hence the mutex; the deadline keeps a broken peer from
// stalling a broadcast to everyone else.
type wsPeer struct {
	snowID string
	mu     sync.Mutex
	conn   *websocket.Conn
}

func newPeer(conn *websocket.Conn) *wsPeer {
	return &wsPeer{snowID: ids.GenerateString(), conn: conn}
}

func (p *wsPeer) WriteText(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

func (p *wsPeer) Close() error {
	return p.conn.Close()
}

// Server owns the registry and exposes the two socket endpoints.
type Server struct {
	reg *Registry
}

func NewServer(reg *Registry) *Server {
	return &Server{reg: reg}
}

// HandleChannelWS serves /ws/:channel_id. Every text frame received is
// broadcast unchanged to all current members of the channel, sender included.
func (s *Server) HandleChannelWS(c *gin.Context) {
	channelID := c.Param("channel_id")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[ChannelWS] upgrade error: %v", err)
		return
	}

	peer := newPeer(ws)
	s.reg.Join(channelID, peer)

	// Cleanup must run exactly once no matter which signal gets here first
	// (read error, peer close, handler exit).
	var once sync.Once
	leave := func() {
		once.Do(func() {
			s.reg.Leave(channelID, peer)
			closeQuiet(ws)
		})
	}
	defer leave()

	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			logReadErr("ChannelWS", peer.snowID, rerr)
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}
		s.reg.Broadcast(channelID, data)
	}
}

// HandleSignalWS serves /ws/signaling/:user_id. Frames carrying a recognized
// signal type are forwarded verbatim to the target's socket; everything else
// is inert.
func (s *Server) HandleSignalWS(c *gin.Context) {
	userID := c.Param("user_id")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[SignalWS] upgrade error: %v", err)
		return
	}

	peer := newPeer(ws)
	s.reg.Bind(userID, peer)

	var once sync.Once
	unbind := func() {
		once.Do(func() {
			s.reg.Unbind(userID, peer)
			closeQuiet(ws)
		})
	}
	defer unbind()

	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			logReadErr("SignalWS", peer.snowID, rerr)
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		env, perr := ParseSignalJSON(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Infof("[SignalWS] bad frame snowID=%s err=%v sample=%q", peer.snowID, perr, sample)
			continue
		}
		if !env.Routable() {
			continue
		}
		s.reg.Forward(env.Target, data)
	}
}

func logReadErr(tag, snowID string, rerr error) {
	if websocket.IsCloseError(rerr,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) {
		logger.Infof("[%s] peer closed snowID=%s err=%v", tag, snowID, rerr)
	} else if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
		logger.Infof("[%s] read timeout snowID=%s err=%v", tag, snowID, rerr)
	} else {
		logger.Infof("[%s] read err snowID=%s err=%v", tag, snowID, rerr)
	}
}

func closeQuiet(c *websocket.Conn) {
	if c != nil {
		_ = c.Close()
	}
}
