package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/jstorm/huddle/internal/core"
	"github.com/jstorm/huddle/internal/protocol"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, cid core.ConnectionID, c *wsSignalConn) {
	ticker := time.NewTicker(ctl.Cfg.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("writePump ctx done")
			c.Close()
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump ping")
				// Close here so the read side unblocks and the disconnect
				// teardown runs without waiting for the read deadline.
				c.Close()
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				c.Close()
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				c.Close()
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cid core.ConnectionID, c *wsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump closing")
		c.Close()
		ctl.Coord.Disconnect(cid)
	}()

	pongWait := ctl.Cfg.PingPeriod * 10 / 9
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("readPump read error")
				return
			}
			ctl.dispatch(cid, c, data)
		}
	}
}

// dispatch routes one inbound frame by its type discriminator. Events from
// a single connection are handled here sequentially, which is what gives
// the per-sender FIFO guarantee downstream.
func (ctl *Controller) dispatch(cid core.ConnectionID, c *wsSignalConn, data []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(c, "bad_payload")
		return
	}

	switch env.Type {
	case protocol.EvtJoinRoom:
		ctl.handleJoin(cid, c, data)
	case protocol.EvtLeave:
		ctl.handleLeave(cid, c)
	case protocol.EvtOffer, protocol.EvtAnswer, protocol.EvtICECandidate:
		ctl.handleSignalRelay(env.Type, cid, data)
	case protocol.EvtChatMessage:
		ctl.handleChat(cid, c, data)
	case protocol.EvtWhiteboardDraw:
		ctl.handleDraw(cid, c, data)
	case protocol.EvtWhiteboardClear:
		ctl.handleClear(cid, c)
	case protocol.EvtCursor:
		ctl.handleCursor(cid, data)
	case protocol.EvtCursorLeave:
		ctl.handleCursorLeave(cid)
	case protocol.EvtFileShare:
		ctl.handleFileShare(cid, c, data)
	case protocol.EvtTypingStart:
		ctl.handleTyping(cid, true)
	case protocol.EvtTypingStop:
		ctl.handleTyping(cid, false)
	case protocol.EvtMediaStateChange:
		ctl.handleMediaState(cid, data)
	case protocol.EvtStartScreenShare:
		ctl.handleScreenShare(cid, true)
	case protocol.EvtStopScreenShare:
		ctl.handleScreenShare(cid, false)
	case protocol.EvtPing:
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}

func (ctl *Controller) sendJSON(c *wsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *Controller) sendError(c *wsSignalConn, msg string) {
	ctl.sendJSON(c, protocol.Error(msg))
}
