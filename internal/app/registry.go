package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jstorm/huddle/internal/core"
	"github.com/jstorm/huddle/internal/domain"
)

type connEntry struct {
	RoomID   domain.RoomID
	Identity domain.Identity
	Conn     core.SignalConnection
	Cancel   context.CancelFunc
}

// Registry maps each live connection to the identity and room it is bound
// to. It owns no room semantics; identity is supplied by the caller and
// trusted at this layer.
type Registry struct {
	mu    sync.RWMutex
	conns map[core.ConnectionID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[core.ConnectionID]*connEntry)}
}

func (r *Registry) Register(cid core.ConnectionID, conn core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[cid] = &connEntry{Conn: conn, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("registered connection")
}

// Bind attaches room and identity to an already-registered connection.
func (r *Registry) Bind(cid core.ConnectionID, roomID domain.RoomID, identity domain.Identity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[cid]
	if !ok {
		return false
	}
	e.RoomID = roomID
	e.Identity = identity
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).
		Str("room", string(roomID)).Str("user", string(identity.UserID)).Msg("bound connection")
	return true
}

func (r *Registry) Lookup(cid core.ConnectionID) (domain.RoomID, domain.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[cid]
	if !ok || e.RoomID == "" {
		return "", domain.Identity{}, false
	}
	return e.RoomID, e.Identity, true
}

func (r *Registry) Conn(cid core.ConnectionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[cid]; ok {
		return e.Conn, true
	}
	return nil, false
}

// ClearRoom detaches the connection from its room without unregistering it;
// an explicit leave keeps the socket alive.
func (r *Registry) ClearRoom(cid core.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[cid]; ok {
		e.RoomID = ""
	}
}

// Unregister drops the connection entry. Idempotent: disconnects race with
// explicit leaves, so unregistering an absent connection is a no-op.
func (r *Registry) Unregister(cid core.ConnectionID) (domain.RoomID, domain.Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[cid]
	if !ok {
		return "", domain.Identity{}, false
	}
	delete(r.conns, cid)
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("unregistered connection")
	return e.RoomID, e.Identity, true
}

// Cancel tears the connection's pumps down via its context. The transport
// disconnect callback then drives the normal leave path.
func (r *Registry) Cancel(cid core.ConnectionID) bool {
	r.mu.RLock()
	e, ok := r.conns[cid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("canceled connection")
	return true
}
