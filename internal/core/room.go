package core

import (
	"errors"

	"github.com/jstorm/huddle/internal/domain"
)

var (
	// ErrRoomClosed means the room was torn down between lookup and use.
	// Callers retry through the manager or treat the operation as a no-op.
	ErrRoomClosed = errors.New("room closed")
	// ErrNotMember means the target connection is not in the room.
	ErrNotMember = errors.New("not a room member")
)

// PublishResult reports delivery stats/backpressure to the caller.
type PublishResult struct {
	SentTo  int
	Dropped []ConnectionID
}

// RoomSnapshot is the full current state handed to a joining connection so
// it can render without a separate query.
type RoomSnapshot struct {
	RoomID       domain.RoomID         `json:"roomId"`
	Participants []domain.Participant  `json:"participants"`
	Messages     []domain.ChatMessage  `json:"messages"`
	Whiteboard   []domain.WhiteboardOp `json:"whiteboardData"`
	Files        []domain.FileInfo     `json:"files"`
}

// Eviction reports a stale participant displaced by a rejoin of the same
// user, plus the host handoff it caused, if any.
type Eviction struct {
	Participant domain.Participant
	NewHost     *domain.Participant
}

// RoomService is the core-facing API of a room. It owns the membership set
// and the room's durable-within-lifetime state (chat tail, whiteboard
// op-log, file index) but never touches transport resources beyond TrySend.
// Every method is a single atomic read-modify-write under the room lock.
type RoomService interface {
	ID() domain.RoomID
	ParticipantCount() int
	Participants() []domain.Participant
	Participant(cid ConnectionID) (domain.Participant, bool)
	Snapshot() RoomSnapshot

	// AddMember inserts the participant, evicting any stale entry bound to
	// the same user id first (reconnect-without-leave). The eviction, if
	// one happened, is returned so the caller can retire the stale
	// connection's binding and announce the departure. Role host is given
	// to the first participant of the room instance and handed off on
	// eviction like any other removal. Returns ErrRoomClosed if the room
	// was already torn down.
	AddMember(cid ConnectionID, identity domain.Identity, conn SignalConnection) (p domain.Participant, evicted *Eviction, err error)

	// RemoveMember deletes the participant. If the departing member held
	// host and others remain, host moves to the earliest joiner and the new
	// host is returned. ok is false if cid was not a member.
	RemoveMember(cid ConnectionID) (removed domain.Participant, newHost *domain.Participant, ok bool)

	AppendChat(msg domain.ChatMessage)
	AppendWhiteboard(op domain.WhiteboardOp)
	ClearWhiteboard()
	AddFile(info domain.FileInfo)
	WhiteboardLen() int

	// Broadcast fans data out to current members. The send is non-blocking;
	// members whose outbound buffer is full are reported in Dropped.
	Broadcast(from ConnectionID, data Frame, excludeSender bool) PublishResult

	// SendTo delivers to a single current member. ErrNotMember if the
	// target is not (or no longer) in the room.
	SendTo(target ConnectionID, data Frame) error
}

type RoomInfo struct {
	ID               domain.RoomID `json:"id"`
	ParticipantCount int           `json:"participant_count"`
}

// RoomManager is the only way in or out of the room table. The backing map
// is never exposed for direct mutation.
type RoomManager interface {
	// GetOrCreate lazily creates the room on first join of an unseen id.
	// Creation has no side effects beyond allocation.
	GetOrCreate(id domain.RoomID) RoomService
	Get(id domain.RoomID) (RoomService, bool)
	// RemoveIfEmpty tears the room down iff its participant set is empty,
	// atomically with respect to concurrent joins. Reports whether it did.
	RemoveIfEmpty(id domain.RoomID) bool
	List() []RoomInfo
}
