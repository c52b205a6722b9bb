package domain

import "time"

const DefaultMimeType = "application/octet-stream"

// FileInfo is the durable metadata kept per shared file. Payload bytes pass
// through the fan-out but are not retained here once delivered.
type FileInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	MimeType  string    `json:"mimeType"`
	Sender    Identity  `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}
