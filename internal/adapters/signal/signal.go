package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/jstorm/huddle/internal/app"
	"github.com/jstorm/huddle/internal/config"
	"github.com/jstorm/huddle/internal/core"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

type Controller struct {
	Coord       *app.Coordinator
	Cfg         *config.Config
	readLimit   int64
	joinLimiter *JoinRateLimiter
}

func NewController(coord *app.Coordinator, cfg *config.Config) *Controller {
	// A file-share frame carries its payload base64-inside-JSON, so a file
	// at the ceiling inflates by 4/3 on the wire. The read limit must sit
	// above that, with headroom for a modestly oversized share to reach
	// admission control and get an error reply instead of a dead socket;
	// twice the ceiling covers both.
	readLimit := cfg.ReadLimit
	if lim := 2 * cfg.MaxFileBytes; readLimit < lim {
		readLimit = lim
	}
	return &Controller{
		Coord:       coord,
		Cfg:         cfg,
		readLimit:   readLimit,
		joinLimiter: NewJoinRateLimiter(cfg.JoinRateLimit, cfg.JoinRateInterval),
	}
}

// wsSignalConn is the adapter-owned transport endpoint a room fans out to.
// TrySend never blocks: a full send queue is reported as backpressure and
// the policy layer decides what to do about the member.
type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and registers a fresh connection.
// Every physical socket gets its own id: the browser cookie identifies a
// client across tabs, but each tab is a distinct connection.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	cid := core.ConnectionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("cid", string(cid)).
		Str("client_token", c.GetString("client_token")).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.readLimit)

	conn := &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.Cfg.SendBuffer),
	}

	ctx, cancel := context.WithCancel(ctx)
	ctl.Coord.Registry.Register(cid, conn, cancel)

	go ctl.writePump(ctx, cid, conn)
	go ctl.readPump(ctx, cid, conn)
}
