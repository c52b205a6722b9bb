package domain

import "time"

type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Identity  `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
}
