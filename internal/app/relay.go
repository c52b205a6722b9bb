package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/jstorm/huddle/internal/core"
	"github.com/jstorm/huddle/internal/protocol"
)

// Relay forwards one negotiation message (offer, answer or ice-candidate)
// from a connection to a named connection in the same room. The payload is
// an opaque blob; the only contract here is correct addressing. A target
// that fails either precondition gets nothing and the sender hears nothing
// back: stale targets are routine churn and the sender retries on the next
// negotiation round.
func (c *Coordinator) Relay(kind string, from, to core.ConnectionID, payload json.RawMessage) {
	roomID, _, ok := c.Registry.Lookup(from)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("kind", kind).
			Str("from", string(from)).Msg("relay from unbound connection, dropped")
		return
	}
	room, ok := c.Rooms.Get(roomID)
	if !ok {
		log.Warn().Str("module", "app.relay").Str("room", string(roomID)).
			Msg("relay: bound room missing from store")
		return
	}

	frame, err := protocol.Encode(protocol.Signal{
		Type:               kind,
		SenderConnectionID: string(from),
		Payload:            payload,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("encode signal")
		return
	}

	if err := room.SendTo(to, frame); err != nil {
		log.Debug().Err(err).Str("module", "app.relay").Str("kind", kind).
			Str("from", string(from)).Str("to", string(to)).Msg("signal dropped")
	}
}
