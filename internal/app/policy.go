package app

import "github.com/jstorm/huddle/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a member whose outbound buffer is full.
type Policy interface {
	OnBackPressure(durable bool, room core.RoomService, cid core.ConnectionID) BackpressureAction
}

// DurabilityPolicy drops transient frames (presence, typing) on the floor
// and kicks a member who cannot keep up with durable ones; the kick goes
// through the normal leave path.
type DurabilityPolicy struct{}

func (DurabilityPolicy) OnBackPressure(durable bool, _ core.RoomService, _ core.ConnectionID) BackpressureAction {
	if durable {
		return KickMember
	}
	return DropFrame
}
