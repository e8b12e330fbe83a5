package model

import (
	"fmt"
	"strings"
	"time"
)

// Account is the bookkeeping record for one attached userbot session.
// The session string is opaque to the gateway; it is produced by an external
// authentication flow and only stored so sessions survive a restart.
type Account struct {
	Name          string    `json:"name"`
	SessionString string    `json:"session_string"`
	AddedAt       time.Time `json:"added_at"`
}

// Identity is the Telegram user record a phone number resolves to.
type Identity struct {
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Contact is one entry of a session's contact list as reported by the platform.
// UserID is zero when the imported phone number has no Telegram account.
type Contact struct {
	ContactID int64  `json:"contact_id"`
	UserID    int64  `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Identity extracts the resolved identity from a contact entry.
// The second return value is false when the contact did not resolve to a user.
func (c Contact) Identity() (Identity, bool) {
	if c.UserID == 0 {
		return Identity{}, false
	}
	return Identity{
		TelegramID: c.UserID,
		Username:   c.Username,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Phone:      c.Phone,
	}, true
}

// FloodWaitError is the platform's rate-limit signal: the caller must pause
// for RetryAfter before issuing further requests on the same session.
type FloodWaitError struct {
	RetryAfter time.Duration
}

func (e *FloodWaitError) Error() string {
	return fmt.Sprintf("flood wait: %d seconds", int(e.RetryAfter.Seconds()))
}

// AddAccountRequest is the request body for attaching an account.
type AddAccountRequest struct {
	Name          string `json:"name"`
	SessionString string `json:"session_string"`
}

// Validate validates the AddAccountRequest fields.
func (r *AddAccountRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(r.SessionString) == "" {
		return fmt.Errorf("session_string is required")
	}
	return nil
}
