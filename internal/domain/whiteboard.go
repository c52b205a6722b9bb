package domain

import (
	"encoding/json"
	"time"
)

// WhiteboardOp is one entry of a room's op-log. Op payload is opaque draw
// data; replaying the log in order reconstructs the canvas for late joiners.
type WhiteboardOp struct {
	Op        json.RawMessage `json:"op"`
	UserID    UserID          `json:"userId"`
	Timestamp time.Time       `json:"timestamp"`
}
