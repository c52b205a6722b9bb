package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/jstorm/huddle/internal/app"
	"github.com/jstorm/huddle/internal/core"
	"github.com/jstorm/huddle/internal/protocol"
)

func (ctl *Controller) handleDraw(cid core.ConnectionID, conn *wsSignalConn, data []byte) {
	var p protocol.DrawIn
	if err := json.Unmarshal(data, &p); err != nil || len(p.Op) == 0 {
		log.Error().Err(err).Str("module", "signal").Msg("bad draw payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := ctl.Coord.WhiteboardDraw(cid, p.Op); err != nil {
		if errors.Is(err, app.ErrNotInRoom) {
			ctl.sendError(conn, "not_in_room")
		}
	}
}

func (ctl *Controller) handleClear(cid core.ConnectionID, conn *wsSignalConn) {
	if err := ctl.Coord.WhiteboardClear(cid); err != nil {
		if errors.Is(err, app.ErrNotInRoom) {
			ctl.sendError(conn, "not_in_room")
		}
	}
}

func (ctl *Controller) handleCursor(cid core.ConnectionID, data []byte) {
	var p protocol.CursorIn
	if err := json.Unmarshal(data, &p); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("bad cursor payload")
		return
	}
	_ = ctl.Coord.Cursor(cid, p)
}

func (ctl *Controller) handleCursorLeave(cid core.ConnectionID) {
	_ = ctl.Coord.CursorLeave(cid)
}
