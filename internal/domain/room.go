package domain

import "time"

type RoomID string

// MaxRoomIDLen bounds the opaque room key accepted from clients. Longer
// ids are rejected rather than truncated so distinct keys never collide.
const MaxRoomIDLen = 64

type Role string

const (
	RoleHost        Role = "host"
	RoleParticipant Role = "participant"
)

// Participant is the denormalized snapshot a room keeps per connection.
// It is refreshed on join and not live-synced afterwards, so a later
// display-name change does not rewrite history already fanned out.
type Participant struct {
	ConnectionID string    `json:"connectionId"`
	Identity     Identity  `json:"user"`
	Role         Role      `json:"role"`
	JoinedAt     time.Time `json:"joinedAt"`
}
