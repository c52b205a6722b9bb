package app

import (
	"github.com/jstorm/huddle/internal/core"
	"github.com/jstorm/huddle/internal/domain"
	"github.com/jstorm/huddle/internal/protocol"
)

// Cursor relays a live cursor position to the other members. Presence is
// never stored server-side: recipients expire a peer's cursor themselves
// after domain.CursorTTL without a refresh.
func (c *Coordinator) Cursor(cid core.ConnectionID, in protocol.CursorIn) error {
	room, identity, err := c.roomOf(cid)
	if err != nil {
		return err
	}
	c.publish(room, cid, protocol.CursorOut{
		Type: protocol.EvtCursor,
		Cursor: domain.Cursor{
			UserID:   identity.UserID,
			UserName: identity.DisplayName,
			X:        in.X,
			Y:        in.Y,
			Color:    in.Color,
		},
	}, true, false)
	return nil
}

// CursorLeave tells the other members the sender's pointer left the canvas.
func (c *Coordinator) CursorLeave(cid core.ConnectionID) error {
	room, identity, err := c.roomOf(cid)
	if err != nil {
		return err
	}
	c.publish(room, cid, protocol.CursorLeaveOut{
		Type:   protocol.EvtCursorLeave,
		UserID: identity.UserID,
	}, true, false)
	return nil
}
