package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/jstorm/huddle/internal/core"
	"github.com/jstorm/huddle/internal/protocol"
)

func (ctl *Controller) handleMediaState(cid core.ConnectionID, data []byte) {
	var p protocol.MediaStateIn
	if err := json.Unmarshal(data, &p); err != nil || len(p.MediaState) == 0 {
		log.Debug().Err(err).Str("module", "signal").Msg("bad media state payload")
		return
	}
	_ = ctl.Coord.MediaState(cid, p.MediaState)
}

func (ctl *Controller) handleScreenShare(cid core.ConnectionID, started bool) {
	_ = ctl.Coord.ScreenShare(cid, started)
}
