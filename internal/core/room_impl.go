package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jstorm/huddle/internal/domain"
)

type member struct {
	p    domain.Participant
	conn SignalConnection
}

// roomImpl is a threadsafe in-memory room. All mutations to the participant
// set, chat tail, op-log and file index are linearized by one lock, which is
// what keeps per-room invariants observable at every step. It never closes
// adapter-owned resources.
type roomImpl struct {
	id        domain.RoomID
	chatLimit int

	mu     sync.RWMutex
	closed bool
	byCID  map[ConnectionID]*member
	byUser map[domain.UserID]ConnectionID

	messages   []domain.ChatMessage
	whiteboard []domain.WhiteboardOp
	files      []domain.FileInfo
}

func newRoom(id domain.RoomID, chatLimit int) *roomImpl {
	return &roomImpl{
		id:        id,
		chatLimit: chatLimit,
		byCID:     make(map[ConnectionID]*member),
		byUser:    make(map[domain.UserID]ConnectionID),
	}
}

func (r *roomImpl) ID() domain.RoomID { return r.id }

func (r *roomImpl) ParticipantCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byCID)
}

func (r *roomImpl) Participants() []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.participantsLocked()
}

func (r *roomImpl) participantsLocked() []domain.Participant {
	out := make([]domain.Participant, 0, len(r.byCID))
	for _, m := range r.byCID {
		out = append(out, m.p)
	}
	return out
}

func (r *roomImpl) Participant(cid ConnectionID) (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.byCID[cid]; ok {
		return m.p, true
	}
	return domain.Participant{}, false
}

func (r *roomImpl) AddMember(cid ConnectionID, identity domain.Identity, conn SignalConnection) (domain.Participant, *Eviction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.Participant{}, nil, ErrRoomClosed
	}

	// A user may not occupy two slots at once: drop a stale entry left by a
	// reconnect that never sent leave. The caller gets the eviction back so
	// it can retire the old connection's binding.
	var evicted *Eviction
	if prev, ok := r.byUser[identity.UserID]; ok && prev != cid {
		if stale, newHost, removed := r.removeLocked(prev); removed {
			evicted = &Eviction{Participant: stale, NewHost: newHost}
			log.Warn().Str("module", "core.room").Str("room", string(r.id)).
				Str("user", string(identity.UserID)).Str("stale_cid", stale.ConnectionID).
				Msg("evicted stale participant on rejoin")
		}
	}

	role := domain.RoleParticipant
	if len(r.byCID) == 0 {
		role = domain.RoleHost
	}
	p := domain.Participant{
		ConnectionID: string(cid),
		Identity:     identity,
		Role:         role,
		JoinedAt:     time.Now(),
	}
	r.byCID[cid] = &member{p: p, conn: conn}
	r.byUser[identity.UserID] = cid
	log.Info().Str("module", "core.room").Str("room", string(r.id)).
		Str("cid", string(cid)).Str("user", string(identity.UserID)).
		Str("role", string(role)).Msg("member added")
	return p, evicted, nil
}

func (r *roomImpl) RemoveMember(cid ConnectionID) (domain.Participant, *domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed, newHost, ok := r.removeLocked(cid)
	if ok {
		log.Info().Str("module", "core.room").Str("room", string(r.id)).
			Str("cid", string(cid)).Msg("member removed")
	}
	return removed, newHost, ok
}

// removeLocked deletes cid and, when the departing member held host and
// others remain, hands host to the earliest joiner. Ties on join time break
// on connection id so handoff never depends on map iteration order.
func (r *roomImpl) removeLocked(cid ConnectionID) (domain.Participant, *domain.Participant, bool) {
	m, ok := r.byCID[cid]
	if !ok {
		return domain.Participant{}, nil, false
	}
	delete(r.byCID, cid)
	if r.byUser[m.p.Identity.UserID] == cid {
		delete(r.byUser, m.p.Identity.UserID)
	}

	var newHost *domain.Participant
	if m.p.Role == domain.RoleHost && len(r.byCID) > 0 {
		var heir *member
		for _, cand := range r.byCID {
			if heir == nil ||
				cand.p.JoinedAt.Before(heir.p.JoinedAt) ||
				(cand.p.JoinedAt.Equal(heir.p.JoinedAt) && cand.p.ConnectionID < heir.p.ConnectionID) {
				heir = cand
			}
		}
		heir.p.Role = domain.RoleHost
		hp := heir.p
		newHost = &hp
		log.Info().Str("module", "core.room").Str("room", string(r.id)).
			Str("cid", hp.ConnectionID).Msg("host handed off")
	}
	return m.p, newHost, true
}

func (r *roomImpl) AppendChat(msg domain.ChatMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	if r.chatLimit > 0 && len(r.messages) > r.chatLimit {
		r.messages = r.messages[len(r.messages)-r.chatLimit:]
	}
}

func (r *roomImpl) AppendWhiteboard(op domain.WhiteboardOp) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.whiteboard = append(r.whiteboard, op)
}

func (r *roomImpl) ClearWhiteboard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.whiteboard = nil
}

func (r *roomImpl) WhiteboardLen() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.whiteboard)
}

func (r *roomImpl) AddFile(info domain.FileInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, info)
}

func (r *roomImpl) Snapshot() RoomSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := RoomSnapshot{
		RoomID:       r.id,
		Participants: r.participantsLocked(),
		Messages:     make([]domain.ChatMessage, len(r.messages)),
		Whiteboard:   make([]domain.WhiteboardOp, len(r.whiteboard)),
		Files:        make([]domain.FileInfo, len(r.files)),
	}
	copy(snap.Messages, r.messages)
	copy(snap.Whiteboard, r.whiteboard)
	copy(snap.Files, r.files)
	return snap
}

func (r *roomImpl) Broadcast(from ConnectionID, data Frame, excludeSender bool) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for cid, m := range r.byCID {
		if excludeSender && cid == from {
			continue
		}
		if err := m.conn.TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, cid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.id)).
		Str("from", string(from)).Int("sent_to", res.SentTo).
		Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *roomImpl) SendTo(target ConnectionID, data Frame) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byCID[target]
	if !ok {
		return ErrNotMember
	}
	return m.conn.TrySend(data)
}

// closeIfEmpty is the teardown half of the store invariant: a room exists
// iff it has at least one participant. Called only by the manager while it
// holds the table lock, so a concurrent GetOrCreate either sees the room
// alive or recreates it fresh.
func (r *roomImpl) closeIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.byCID) > 0 {
		return false
	}
	r.closed = true
	r.messages = nil
	r.whiteboard = nil
	r.files = nil
	return true
}
