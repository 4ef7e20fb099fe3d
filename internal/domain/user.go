package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an operator account. GmailAddress/GmailAppPassword are the
// per-operator transport credentials used by the send pipeline; they are
// optional until the operator fills in their profile.
type User struct {
	ID               uuid.UUID `json:"id"`
	Username         string    `json:"username"`
	PasswordHash     string    `json:"-"`
	GmailAddress     string    `json:"gmail_address,omitempty"`
	GmailAppPassword string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}

// HasMailCredentials reports whether the operator can send through their
// own Gmail account.
func (u *User) HasMailCredentials() bool {
	return u.GmailAddress != "" && u.GmailAppPassword != ""
}
