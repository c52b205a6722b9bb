package domain

import "time"

// CursorTTL is how long a peer's cursor stays visible without a refresh.
// Expiry is consumer-local; the server only relays updates and leave signals.
const CursorTTL = 5 * time.Second

type Cursor struct {
	UserID   UserID  `json:"userId"`
	UserName string  `json:"userName"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Color    string  `json:"color,omitempty"`
}
