package core

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstorm/huddle/internal/domain"
)

type fakeConn struct {
	mu      sync.Mutex
	frames  []Frame
	sendErr error
	closed  bool
}

func (f *fakeConn) TrySend(fr Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeConn) Frames() []Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Frame, len(f.frames))
	copy(out, f.frames)
	return out
}

func ident(n int) domain.Identity {
	return domain.Identity{
		UserID:      domain.UserID(fmt.Sprintf("user-%d", n)),
		DisplayName: fmt.Sprintf("User %d", n),
	}
}

func TestFirstParticipantIsHost(t *testing.T) {
	r := newRoom("abc123", 50)

	p1, _, err := r.AddMember("c1", ident(1), &fakeConn{})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleHost, p1.Role)

	p2, _, err := r.AddMember("c2", ident(2), &fakeConn{})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleParticipant, p2.Role)
	assert.Equal(t, 2, r.ParticipantCount())
}

func TestHostHandoffToEarliestJoiner(t *testing.T) {
	r := newRoom("abc123", 50)
	_, _, err := r.AddMember("c1", ident(1), &fakeConn{})
	require.NoError(t, err)
	_, _, err = r.AddMember("c2", ident(2), &fakeConn{})
	require.NoError(t, err)
	_, _, err = r.AddMember("c3", ident(3), &fakeConn{})
	require.NoError(t, err)

	removed, newHost, ok := r.RemoveMember("c1")
	require.True(t, ok)
	assert.Equal(t, domain.RoleHost, removed.Role)
	require.NotNil(t, newHost)
	assert.Equal(t, "c2", newHost.ConnectionID)

	hosts := 0
	for _, p := range r.Participants() {
		if p.Role == domain.RoleHost {
			hosts++
		}
	}
	assert.Equal(t, 1, hosts)
}

func TestNonHostLeaveKeepsHost(t *testing.T) {
	r := newRoom("abc123", 50)
	_, _, _ = r.AddMember("c1", ident(1), &fakeConn{})
	_, _, _ = r.AddMember("c2", ident(2), &fakeConn{})

	_, newHost, ok := r.RemoveMember("c2")
	require.True(t, ok)
	assert.Nil(t, newHost)

	p, ok := r.Participant("c1")
	require.True(t, ok)
	assert.Equal(t, domain.RoleHost, p.Role)
}

func TestRemoveUnknownMember(t *testing.T) {
	r := newRoom("abc123", 50)
	_, _, ok := r.RemoveMember("nope")
	assert.False(t, ok)
}

func TestDuplicateUserEvicted(t *testing.T) {
	r := newRoom("abc123", 50)
	_, _, _ = r.AddMember("c1", ident(1), &fakeConn{})
	_, _, _ = r.AddMember("c2", ident(2), &fakeConn{})

	// Same user rejoins on a new connection without an explicit leave.
	p, evicted, err := r.AddMember("c3", ident(1), &fakeConn{})
	require.NoError(t, err)
	require.NotNil(t, evicted)
	assert.Equal(t, "c1", evicted.Participant.ConnectionID)
	require.NotNil(t, evicted.NewHost)
	assert.Equal(t, "c2", evicted.NewHost.ConnectionID)

	assert.Equal(t, 2, r.ParticipantCount())
	_, stale := r.Participant("c1")
	assert.False(t, stale)

	// The host slot moved before the rejoin was added, so it is not vacant
	// and not duplicated.
	hosts := 0
	for _, m := range r.Participants() {
		if m.Role == domain.RoleHost {
			hosts++
		}
	}
	assert.Equal(t, 1, hosts)
	assert.Equal(t, domain.RoleParticipant, p.Role)
}

func TestBroadcastExcludesSender(t *testing.T) {
	r := newRoom("abc123", 50)
	sender, other := &fakeConn{}, &fakeConn{}
	_, _, _ = r.AddMember("c1", ident(1), sender)
	_, _, _ = r.AddMember("c2", ident(2), other)

	res := r.Broadcast("c1", Frame(`{"type":"x"}`), true)
	assert.Equal(t, 1, res.SentTo)
	assert.Empty(t, sender.Frames())
	assert.Len(t, other.Frames(), 1)

	res = r.Broadcast("c1", Frame(`{"type":"y"}`), false)
	assert.Equal(t, 2, res.SentTo)
	assert.Len(t, sender.Frames(), 1)
}

func TestBroadcastPreservesPerSenderOrder(t *testing.T) {
	r := newRoom("abc123", 50)
	recv := &fakeConn{}
	_, _, _ = r.AddMember("c1", ident(1), &fakeConn{})
	_, _, _ = r.AddMember("c2", ident(2), recv)

	for i := 0; i < 10; i++ {
		r.Broadcast("c1", Frame(fmt.Sprintf(`{"seq":%d}`, i)), true)
	}

	frames := recv.Frames()
	require.Len(t, frames, 10)
	for i, fr := range frames {
		var m struct {
			Seq int `json:"seq"`
		}
		require.NoError(t, json.Unmarshal(fr, &m))
		assert.Equal(t, i, m.Seq)
	}
}

func TestBroadcastReportsBackpressure(t *testing.T) {
	r := newRoom("abc123", 50)
	stalled := &fakeConn{sendErr: fmt.Errorf("backpressure")}
	_, _, _ = r.AddMember("c1", ident(1), &fakeConn{})
	_, _, _ = r.AddMember("c2", ident(2), stalled)

	res := r.Broadcast("c1", Frame(`{}`), true)
	assert.Equal(t, 0, res.SentTo)
	assert.Equal(t, []ConnectionID{"c2"}, res.Dropped)
}

func TestSendToNonMember(t *testing.T) {
	r := newRoom("abc123", 50)
	_, _, _ = r.AddMember("c1", ident(1), &fakeConn{})

	err := r.SendTo("gone", Frame(`{}`))
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestSendToDeliversUnchanged(t *testing.T) {
	r := newRoom("abc123", 50)
	recv := &fakeConn{}
	_, _, _ = r.AddMember("c1", ident(1), &fakeConn{})
	_, _, _ = r.AddMember("c2", ident(2), recv)

	payload := Frame(`{"type":"offer","sdp":"v=0..."}`)
	require.NoError(t, r.SendTo("c2", payload))
	frames := recv.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, payload, frames[0])
}

func TestChatHistoryBounded(t *testing.T) {
	r := newRoom("abc123", 3)
	for i := 0; i < 5; i++ {
		r.AppendChat(domain.ChatMessage{ID: fmt.Sprintf("m%d", i)})
	}
	snap := r.Snapshot()
	require.Len(t, snap.Messages, 3)
	assert.Equal(t, "m2", snap.Messages[0].ID)
	assert.Equal(t, "m4", snap.Messages[2].ID)
}

func TestWhiteboardLogAndClear(t *testing.T) {
	r := newRoom("abc123", 50)
	r.AppendWhiteboard(domain.WhiteboardOp{Op: json.RawMessage(`{"x":10}`)})
	r.AppendWhiteboard(domain.WhiteboardOp{Op: json.RawMessage(`{"x":11}`)})
	assert.Equal(t, 2, r.WhiteboardLen())

	r.ClearWhiteboard()
	assert.Equal(t, 0, r.WhiteboardLen())
}

func TestSnapshotIsIsolatedCopy(t *testing.T) {
	r := newRoom("abc123", 50)
	r.AppendChat(domain.ChatMessage{ID: "m0"})
	snap := r.Snapshot()

	r.AppendChat(domain.ChatMessage{ID: "m1"})
	assert.Len(t, snap.Messages, 1)
}

func TestAddMemberAfterClose(t *testing.T) {
	r := newRoom("abc123", 50)
	require.True(t, r.closeIfEmpty())

	_, _, err := r.AddMember("c1", ident(1), &fakeConn{})
	assert.ErrorIs(t, err, ErrRoomClosed)
}
