package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/jstorm/huddle/internal/app"
	"github.com/jstorm/huddle/internal/core"
	"github.com/jstorm/huddle/internal/protocol"
)

func (ctl *Controller) handleFileShare(cid core.ConnectionID, conn *wsSignalConn, data []byte) {
	var p protocol.FileShareIn
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad file payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.Name == "" {
		ctl.sendError(conn, "bad_payload")
		return
	}

	info, err := ctl.Coord.FileShare(cid, p)
	switch {
	case errors.Is(err, app.ErrFileTooLarge):
		// Rejected to the sender only; nothing is broadcast or indexed.
		ctl.sendError(conn, "file_too_large")
	case errors.Is(err, app.ErrNotInRoom):
		ctl.sendError(conn, "not_in_room")
	case err == nil:
		log.Info().Str("module", "signal").Str("cid", string(cid)).
			Str("file", info.Name).Int64("size", info.Size).Msg("file shared")
	}
}
