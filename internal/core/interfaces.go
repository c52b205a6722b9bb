package core

// Frame is a raw encoded payload handed to a transport.
type Frame []byte

// ConnectionID identifies one live transport endpoint. Opaque, unique per
// physical connection, assigned at connect time.
type ConnectionID string

// SignalConnection abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
