package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/jstorm/huddle/internal/core"
	"github.com/jstorm/huddle/internal/protocol"
)

// handleSignalRelay forwards offer/answer/ice-candidate to the addressed
// peer. The SDP/ICE payload is opaque here; the relay only guarantees
// addressing. Failures are silent by contract — the sender renegotiates.
func (ctl *Controller) handleSignalRelay(kind string, cid core.ConnectionID, data []byte) {
	var p protocol.SignalIn
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("kind", kind).Msg("bad signal payload")
		return
	}
	if p.TargetConnectionID == "" {
		log.Debug().Str("module", "signal").Str("kind", kind).Msg("signal without target, dropped")
		return
	}
	ctl.Coord.Relay(kind, cid, core.ConnectionID(p.TargetConnectionID), p.Payload)
}
