package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jstorm/huddle/internal/domain"
)

type roomManager struct {
	chatLimit int

	mu    sync.RWMutex
	rooms map[domain.RoomID]*roomImpl
}

func NewRoomManager(chatLimit int) RoomManager {
	return &roomManager{
		chatLimit: chatLimit,
		rooms:     make(map[domain.RoomID]*roomImpl),
	}
}

func (m *roomManager) GetOrCreate(id domain.RoomID) RoomService {
	m.mu.RLock()
	room, ok := m.rooms[id]
	m.mu.RUnlock()
	if ok {
		return room
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok = m.rooms[id]; ok {
		return room
	}
	room = newRoom(id, m.chatLimit)
	m.rooms[id] = room
	log.Info().Str("module", "core.rooms").Str("room", string(id)).Msg("room created")
	return room
}

func (m *roomManager) Get(id domain.RoomID) (RoomService, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[id]
	if !ok {
		return nil, false
	}
	return room, true
}

func (m *roomManager) RemoveIfEmpty(id domain.RoomID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok {
		return false
	}
	if !room.closeIfEmpty() {
		return false
	}
	delete(m.rooms, id)
	log.Info().Str("module", "core.rooms").Str("room", string(id)).Msg("room deleted (empty)")
	return true
}

func (m *roomManager) List() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RoomInfo, 0, len(m.rooms))
	for id, r := range m.rooms {
		out = append(out, RoomInfo{ID: id, ParticipantCount: r.ParticipantCount()})
	}
	return out
}
