package app

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/jstorm/huddle/internal/core"
	"github.com/jstorm/huddle/internal/domain"
	"github.com/jstorm/huddle/internal/protocol"
)

var (
	ErrNotRegistered = errors.New("connection not registered")
	ErrNotInRoom     = errors.New("connection not bound to a room")
	ErrFileTooLarge  = errors.New("file exceeds size limit")
)

// Coordinator mediates all access to the room table. Join, leave, relay and
// fan-out each perform one atomic read-modify-write against a single room;
// a fault while handling one connection's event never crosses into another
// room's state.
type Coordinator struct {
	Registry     *Registry
	Rooms        core.RoomManager
	Policy       Policy
	MaxFileBytes int64
}

func NewCoordinator(reg *Registry, rooms core.RoomManager, policy Policy, maxFileBytes int64) *Coordinator {
	return &Coordinator{
		Registry:     reg,
		Rooms:        rooms,
		Policy:       policy,
		MaxFileBytes: maxFileBytes,
	}
}

// Join attaches the connection to the room, creating it lazily on first use.
// The returned snapshot carries the full current room state so the joiner
// renders without a separate query; a user-joined event goes to everyone
// else.
func (c *Coordinator) Join(cid core.ConnectionID, roomID domain.RoomID, identity domain.Identity) (core.RoomSnapshot, domain.Participant, error) {
	conn, ok := c.Registry.Conn(cid)
	if !ok {
		return core.RoomSnapshot{}, domain.Participant{}, ErrNotRegistered
	}
	if prev, _, bound := c.Registry.Lookup(cid); bound {
		log.Info().Str("module", "app.coordinator").Str("cid", string(cid)).
			Str("prev_room", string(prev)).Msg("leaving previous room on join")
		c.Leave(cid)
	}

	for {
		room := c.Rooms.GetOrCreate(roomID)
		p, evicted, err := room.AddMember(cid, identity, conn)
		if errors.Is(err, core.ErrRoomClosed) {
			// Lost the race against teardown of the previous instance;
			// the next GetOrCreate allocates a fresh one.
			continue
		}
		if err != nil {
			return core.RoomSnapshot{}, domain.Participant{}, err
		}
		c.Registry.Bind(cid, roomID, identity)
		if evicted != nil {
			// The stale connection is out of the room now; retire its
			// binding so later events from it resolve to not-in-room, and
			// tell the remaining peers it left.
			c.Registry.ClearRoom(core.ConnectionID(evicted.Participant.ConnectionID))
			c.publish(room, cid, protocol.UserLeft{
				Type:        protocol.EvtUserLeft,
				Participant: evicted.Participant,
				NewHost:     evicted.NewHost,
			}, true, true)
		}
		c.publish(room, cid, protocol.UserJoined{Type: protocol.EvtUserJoined, Participant: p}, true, true)
		return room.Snapshot(), p, nil
	}
}

// Leave detaches the connection from its room: removes the participant,
// notifies the others, hands host off and tears the room down when empty.
// Safe to call from an explicit leave or a transport disconnect racing with
// it; an unresolved connection is a no-op.
func (c *Coordinator) Leave(cid core.ConnectionID) bool {
	roomID, _, ok := c.Registry.Lookup(cid)
	if !ok {
		return false
	}
	c.Registry.ClearRoom(cid)

	room, ok := c.Rooms.Get(roomID)
	if !ok {
		// Room vanished mid-operation. Losing one event must not take a
		// live connection down, so degrade to a no-op.
		log.Warn().Str("module", "app.coordinator").Str("cid", string(cid)).
			Str("room", string(roomID)).Msg("leave: room already gone")
		return false
	}

	removed, newHost, ok := room.RemoveMember(cid)
	if !ok {
		log.Warn().Str("module", "app.coordinator").Str("cid", string(cid)).
			Str("room", string(roomID)).Msg("leave: not a member")
		c.Rooms.RemoveIfEmpty(roomID)
		return false
	}

	// Peers drop the cursor by TTL anyway; the explicit signal spares them
	// the wait when the sender is gone for good.
	c.publish(room, cid, protocol.CursorLeaveOut{Type: protocol.EvtCursorLeave, UserID: removed.Identity.UserID}, true, false)
	c.publish(room, cid, protocol.UserLeft{Type: protocol.EvtUserLeft, Participant: removed, NewHost: newHost}, true, true)

	c.Rooms.RemoveIfEmpty(roomID)
	return true
}

// Disconnect is the transport-level teardown: leave whatever room the
// connection was in, then forget the connection.
func (c *Coordinator) Disconnect(cid core.ConnectionID) {
	c.Leave(cid)
	c.Registry.Unregister(cid)
}

// publish encodes v once and fans it out to the room's current members,
// applying the backpressure policy to anyone whose buffer is full. The
// room's lock plus each recipient's ordered send queue keep per-sender
// delivery order intact.
func (c *Coordinator) publish(room core.RoomService, from core.ConnectionID, v any, excludeSender, durable bool) {
	frame, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("encode event")
		return
	}
	res := room.Broadcast(from, frame, excludeSender)
	if c.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch c.Policy.OnBackPressure(durable, room, slow) {
		case KickMember:
			log.Warn().Str("module", "app.coordinator").Str("cid", string(slow)).
				Str("room", string(room.ID())).Msg("kicking stalled member")
			c.Registry.Cancel(slow)
		case DropFrame, NoAction:
			log.Debug().Str("module", "app.coordinator").Str("cid", string(slow)).
				Msg("dropped frame for slow member")
		}
	}
}

// roomOf resolves the room a connection is bound to, treating a vanished
// room as the not-bound case after logging the anomaly.
func (c *Coordinator) roomOf(cid core.ConnectionID) (core.RoomService, domain.Identity, error) {
	roomID, identity, ok := c.Registry.Lookup(cid)
	if !ok {
		return nil, domain.Identity{}, ErrNotInRoom
	}
	room, ok := c.Rooms.Get(roomID)
	if !ok {
		log.Warn().Str("module", "app.coordinator").Str("cid", string(cid)).
			Str("room", string(roomID)).Msg("bound room missing from store")
		return nil, identity, ErrNotInRoom
	}
	return room, identity, nil
}
