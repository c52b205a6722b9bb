package core

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstorm/huddle/internal/domain"
)

func TestGetOrCreateReturnsSameRoom(t *testing.T) {
	m := NewRoomManager(50)
	a := m.GetOrCreate("abc123")
	b := m.GetOrCreate("abc123")
	assert.Same(t, a, b)
}

func TestRemoveIfEmptyOnlyWhenEmpty(t *testing.T) {
	m := NewRoomManager(50)
	room := m.GetOrCreate("abc123")
	_, _, err := room.AddMember("c1", ident(1), &fakeConn{})
	require.NoError(t, err)

	assert.False(t, m.RemoveIfEmpty("abc123"))
	_, ok := m.Get("abc123")
	assert.True(t, ok)

	room.RemoveMember("c1")
	assert.True(t, m.RemoveIfEmpty("abc123"))
	_, ok = m.Get("abc123")
	assert.False(t, ok)
}

func TestRecreatedRoomHasNoStaleState(t *testing.T) {
	m := NewRoomManager(50)
	room := m.GetOrCreate("abc123")
	_, _, _ = room.AddMember("c1", ident(1), &fakeConn{})
	room.AppendChat(domain.ChatMessage{ID: "m0", Text: "hello"})
	room.RemoveMember("c1")
	require.True(t, m.RemoveIfEmpty("abc123"))

	fresh := m.GetOrCreate("abc123")
	snap := fresh.Snapshot()
	assert.Empty(t, snap.Messages)
	assert.Empty(t, snap.Participants)
	assert.Empty(t, snap.Whiteboard)
	assert.Empty(t, snap.Files)
}

func TestList(t *testing.T) {
	m := NewRoomManager(50)
	_, _, _ = m.GetOrCreate("a").AddMember("c1", ident(1), &fakeConn{})
	_, _, _ = m.GetOrCreate("b").AddMember("c2", ident(2), &fakeConn{})

	infos := m.List()
	require.Len(t, infos, 2)
	for _, info := range infos {
		assert.Equal(t, 1, info.ParticipantCount)
	}
}

// Store invariant: a room exists iff its participant set is non-empty,
// checked after every mutation of a random join/leave sequence.
func TestRandomJoinLeaveKeepsStoreInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := NewRoomManager(50)
	roomIDs := []domain.RoomID{"r1", "r2", "r3"}
	inRoom := make(map[ConnectionID]domain.RoomID)

	checkInvariant := func() {
		occupied := make(map[domain.RoomID]int)
		for _, rid := range inRoom {
			occupied[rid]++
		}
		for _, rid := range roomIDs {
			room, ok := m.Get(rid)
			if occupied[rid] > 0 {
				require.True(t, ok, "room %s should exist", rid)
				require.Equal(t, occupied[rid], room.ParticipantCount())
			} else {
				require.False(t, ok, "room %s should be gone", rid)
			}
		}
	}

	for i := 0; i < 500; i++ {
		cid := ConnectionID(fmt.Sprintf("c%d", rng.Intn(20)))
		if rid, joined := inRoom[cid]; joined && rng.Intn(2) == 0 {
			room, ok := m.Get(rid)
			require.True(t, ok)
			room.RemoveMember(cid)
			m.RemoveIfEmpty(rid)
			delete(inRoom, cid)
		} else if !joined {
			rid := roomIDs[rng.Intn(len(roomIDs))]
			room := m.GetOrCreate(rid)
			// Unique user per connection in this sequence, so no eviction.
			_, _, err := room.AddMember(cid, domain.Identity{
				UserID:      domain.UserID("u-" + string(cid)),
				DisplayName: string(cid),
			}, &fakeConn{})
			require.NoError(t, err)
			inRoom[cid] = rid
		}
		checkInvariant()
	}
}
