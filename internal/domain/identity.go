// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const (
	MaxUserIDLen      = 64
	MaxDisplayNameLen = 64
)

var (
	ErrDisplayNameTooLong = errors.New("display name too long")
	ErrDisplayNameEmpty   = errors.New("display name empty")
)

type UserID string

// Identity is what the client presents at join time. It is authenticated
// upstream; this subsystem trusts it as handed over.
type Identity struct {
	UserID      UserID `json:"id"`
	DisplayName string `json:"name"`
	Email       string `json:"email,omitempty"`
}

func (i Identity) Validate() error {
	if i.DisplayName == "" {
		return ErrDisplayNameEmpty
	}
	if len(i.DisplayName) > MaxDisplayNameLen {
		return ErrDisplayNameTooLong
	}
	return nil
}
