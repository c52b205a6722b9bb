// Package protocol defines the JSON wire events exchanged over the
// signaling socket. Every frame is an object with a "type" discriminator;
// the remaining fields depend on the type.
package protocol

import (
	"encoding/json"

	"github.com/jstorm/huddle/internal/core"
	"github.com/jstorm/huddle/internal/domain"
)

// Inbound event types.
const (
	EvtJoinRoom         = "join-room"
	EvtLeave            = "leave"
	EvtOffer            = "offer"
	EvtAnswer           = "answer"
	EvtICECandidate     = "ice-candidate"
	EvtChatMessage      = "chat-message"
	EvtWhiteboardDraw   = "whiteboard-draw"
	EvtWhiteboardClear  = "whiteboard-clear"
	EvtCursor           = "whiteboard-cursor"
	EvtCursorLeave      = "whiteboard-cursor-leave"
	EvtFileShare        = "file-share"
	EvtTypingStart      = "typing-start"
	EvtTypingStop       = "typing-stop"
	EvtMediaStateChange = "media-state-change"
	EvtStartScreenShare = "start-screen-share"
	EvtStopScreenShare  = "stop-screen-share"
	EvtPing             = "ping"
)

// Outbound event types without an inbound twin.
const (
	EvtRoomState          = "room-state"
	EvtUserJoined         = "user-joined"
	EvtUserLeft           = "user-left"
	EvtFileShared         = "file-shared"
	EvtUserTyping         = "user-typing"
	EvtUserStoppedTyping  = "user-stopped-typing"
	EvtUserMediaState     = "user-media-state-changed"
	EvtScreenShareStarted = "user-started-screen-share"
	EvtScreenShareStopped = "user-stopped-screen-share"
	EvtLeft               = "left"
	EvtPong               = "pong"
	EvtError              = "error"
)

// Envelope carries only the discriminator; used for dispatch before the
// type-specific decode.
type Envelope struct {
	Type string `json:"type"`
}

// Inbound payloads.

type JoinRoomIn struct {
	Room string          `json:"room"`
	User domain.Identity `json:"user"`
}

// SignalIn addresses a negotiation payload at one connection in the same
// room. Payload is opaque SDP/ICE content, never interpreted here.
type SignalIn struct {
	TargetConnectionID string          `json:"targetConnectionId"`
	Payload            json.RawMessage `json:"payload"`
}

type ChatIn struct {
	Text string `json:"text"`
}

type DrawIn struct {
	Op json.RawMessage `json:"op"`
}

type CursorIn struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

type FileShareIn struct {
	Name     string          `json:"name"`
	Size     int64           `json:"size"`
	MimeType string          `json:"mimeType"`
	Payload  json.RawMessage `json:"payload"`
}

type MediaStateIn struct {
	MediaState json.RawMessage `json:"mediaState"`
}

// Outbound payloads.

// RoomState is the initial snapshot sent to a joiner. ConnectionID tells
// the client its own id so it can match relayed sender ids against itself.
type RoomState struct {
	Type         string `json:"type"`
	ConnectionID string `json:"connectionId"`
	core.RoomSnapshot
}

type UserJoined struct {
	Type        string             `json:"type"`
	Participant domain.Participant `json:"participant"`
}

type UserLeft struct {
	Type        string              `json:"type"`
	Participant domain.Participant  `json:"participant"`
	NewHost     *domain.Participant `json:"newHost,omitempty"`
}

// Signal is the relayed form of offer/answer/ice-candidate. Type carries
// the original kind so the receiver dispatches it like a direct message.
type Signal struct {
	Type               string          `json:"type"`
	SenderConnectionID string          `json:"senderConnectionId"`
	Payload            json.RawMessage `json:"payload"`
}

type ChatOut struct {
	Type string `json:"type"`
	domain.ChatMessage
}

type DrawOut struct {
	Type   string          `json:"type"`
	Op     json.RawMessage `json:"op"`
	UserID domain.UserID   `json:"userId"`
}

type ClearOut struct {
	Type string `json:"type"`
}

type FileShared struct {
	Type string `json:"type"`
	domain.FileInfo
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CursorOut struct {
	Type string `json:"type"`
	domain.Cursor
}

type CursorLeaveOut struct {
	Type   string        `json:"type"`
	UserID domain.UserID `json:"userId"`
}

type TypingOut struct {
	Type         string          `json:"type"`
	ConnectionID string          `json:"connectionId"`
	User         domain.Identity `json:"user"`
}

type MediaStateOut struct {
	Type         string          `json:"type"`
	ConnectionID string          `json:"connectionId"`
	User         domain.Identity `json:"user"`
	MediaState   json.RawMessage `json:"mediaState"`
}

type ScreenShareOut struct {
	Type         string          `json:"type"`
	ConnectionID string          `json:"connectionId"`
	User         domain.Identity `json:"user"`
}

type Left struct {
	Type string `json:"type"`
}

type Pong struct {
	Type string `json:"type"`
}

type ErrorOut struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func Encode(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return core.Frame(b), nil
}

func Error(msg string) ErrorOut {
	return ErrorOut{Type: EvtError, Error: msg}
}
