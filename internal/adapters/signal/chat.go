package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/jstorm/huddle/internal/app"
	"github.com/jstorm/huddle/internal/core"
	"github.com/jstorm/huddle/internal/protocol"
)

func (ctl *Controller) handleChat(cid core.ConnectionID, conn *wsSignalConn, data []byte) {
	var p protocol.ChatIn
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad chat payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := ctl.Coord.Chat(cid, p.Text); err != nil {
		if errors.Is(err, app.ErrNotInRoom) {
			ctl.sendError(conn, "not_in_room")
		}
	}
}

// Typing indicators are transient; a sender that is not in a room simply
// produces nothing.
func (ctl *Controller) handleTyping(cid core.ConnectionID, started bool) {
	_ = ctl.Coord.Typing(cid, started)
}
