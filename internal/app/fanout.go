package app

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jstorm/huddle/internal/core"
	"github.com/jstorm/huddle/internal/domain"
	"github.com/jstorm/huddle/internal/protocol"
)

// Chat appends the message to the room's bounded history and delivers it to
// everyone except the sender, who already has a local echo.
func (c *Coordinator) Chat(cid core.ConnectionID, text string) error {
	room, identity, err := c.roomOf(cid)
	if err != nil {
		return err
	}
	msg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    identity,
		Timestamp: time.Now(),
		Kind:      "text",
	}
	room.AppendChat(msg)
	c.publish(room, cid, protocol.ChatOut{Type: protocol.EvtChatMessage, ChatMessage: msg}, true, true)
	return nil
}

// WhiteboardDraw appends the op to the room's op-log, so late joiners can
// replay the canvas, and fans it out to everyone but the sender.
func (c *Coordinator) WhiteboardDraw(cid core.ConnectionID, op json.RawMessage) error {
	room, identity, err := c.roomOf(cid)
	if err != nil {
		return err
	}
	room.AppendWhiteboard(domain.WhiteboardOp{
		Op:        op,
		UserID:    identity.UserID,
		Timestamp: time.Now(),
	})
	c.publish(room, cid, protocol.DrawOut{
		Type:   protocol.EvtWhiteboardDraw,
		Op:     op,
		UserID: identity.UserID,
	}, true, true)
	return nil
}

// WhiteboardClear truncates the op-log and notifies every member, sender
// included, so all canvases reset together.
func (c *Coordinator) WhiteboardClear(cid core.ConnectionID) error {
	room, _, err := c.roomOf(cid)
	if err != nil {
		return err
	}
	room.ClearWhiteboard()
	c.publish(room, cid, protocol.ClearOut{Type: protocol.EvtWhiteboardClear}, false, true)
	return nil
}

// FileShare records file metadata in the room index and fans the file out
// to every member including the sender. Payload bytes pass through but only
// the metadata is retained. Oversized files are rejected to the sender only.
func (c *Coordinator) FileShare(cid core.ConnectionID, in protocol.FileShareIn) (domain.FileInfo, error) {
	room, identity, err := c.roomOf(cid)
	if err != nil {
		return domain.FileInfo{}, err
	}
	if in.Size > c.MaxFileBytes || int64(len(in.Payload)) > c.MaxFileBytes {
		return domain.FileInfo{}, ErrFileTooLarge
	}
	mime := in.MimeType
	if mime == "" {
		mime = domain.DefaultMimeType
	}
	info := domain.FileInfo{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Size:      in.Size,
		MimeType:  mime,
		Sender:    identity,
		Timestamp: time.Now(),
	}
	room.AddFile(info)
	c.publish(room, cid, protocol.FileShared{
		Type:     protocol.EvtFileShared,
		FileInfo: info,
		Payload:  in.Payload,
	}, false, true)
	return info, nil
}

// Typing relays a transient typing indicator. Nothing is persisted.
func (c *Coordinator) Typing(cid core.ConnectionID, started bool) error {
	room, identity, err := c.roomOf(cid)
	if err != nil {
		return err
	}
	evt := protocol.EvtUserStoppedTyping
	if started {
		evt = protocol.EvtUserTyping
	}
	c.publish(room, cid, protocol.TypingOut{
		Type:         evt,
		ConnectionID: string(cid),
		User:         identity,
	}, true, false)
	return nil
}

// MediaState relays a mute/camera state change to the other members.
func (c *Coordinator) MediaState(cid core.ConnectionID, state json.RawMessage) error {
	room, identity, err := c.roomOf(cid)
	if err != nil {
		return err
	}
	c.publish(room, cid, protocol.MediaStateOut{
		Type:         protocol.EvtUserMediaState,
		ConnectionID: string(cid),
		User:         identity,
		MediaState:   state,
	}, true, false)
	return nil
}

// ScreenShare announces screen-share start/stop to the other members and
// echoes the implied media-state change back to the sender.
func (c *Coordinator) ScreenShare(cid core.ConnectionID, started bool) error {
	room, identity, err := c.roomOf(cid)
	if err != nil {
		return err
	}
	evt := protocol.EvtScreenShareStopped
	state := json.RawMessage(`{"screenShare":false}`)
	if started {
		evt = protocol.EvtScreenShareStarted
		state = json.RawMessage(`{"screenShare":true}`)
	}
	c.publish(room, cid, protocol.ScreenShareOut{
		Type:         evt,
		ConnectionID: string(cid),
		User:         identity,
	}, true, false)

	if conn, ok := c.Registry.Conn(cid); ok {
		if frame, err := protocol.Encode(protocol.MediaStateOut{
			Type:         protocol.EvtMediaStateChange,
			ConnectionID: string(cid),
			User:         identity,
			MediaState:   state,
		}); err == nil {
			_ = conn.TrySend(frame)
		}
	}
	return nil
}
