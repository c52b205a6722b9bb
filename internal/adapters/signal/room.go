package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/jstorm/huddle/internal/core"
	"github.com/jstorm/huddle/internal/domain"
	"github.com/jstorm/huddle/internal/protocol"
)

func (ctl *Controller) handleJoin(cid core.ConnectionID, conn *wsSignalConn, data []byte) {
	var p protocol.JoinRoomIn
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	// Room ids are opaque keys; an overlong one is rejected outright since
	// truncating would alias distinct rooms.
	if p.Room == "" || len(p.Room) > domain.MaxRoomIDLen {
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := p.User.Validate(); err != nil {
		ctl.sendError(conn, "invalid_name")
		return
	}

	if !ctl.joinLimiter.Allow(p.User.UserID) {
		log.Warn().Str("module", "signal").Str("user", string(p.User.UserID)).Msg("join rate limited")
		ctl.sendError(conn, "rate_limited")
		return
	}

	log.Info().Str("module", "signal").Str("cid", string(cid)).
		Str("room", p.Room).Str("user", string(p.User.UserID)).Msg("join")

	snap, _, err := ctl.Coord.Join(cid, domain.RoomID(p.Room), p.User)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("join failed")
		ctl.sendError(conn, "join_failed")
		return
	}

	ctl.sendJSON(conn, protocol.RoomState{
		Type:         protocol.EvtRoomState,
		ConnectionID: string(cid),
		RoomSnapshot: snap,
	})
}

// handleLeave detaches from the current room; the socket stays open.
func (ctl *Controller) handleLeave(cid core.ConnectionID, conn *wsSignalConn) {
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("leave")
	ctl.Coord.Leave(cid)
	ctl.sendJSON(conn, protocol.Left{Type: protocol.EvtLeft})
}
