package models

import "time"

// Flash is a single-use notification. It is written by one handler, shown by
// the very next rendered page, and deleted in the same step.
type Flash struct {
	Type string `json:"type"` // "success" | "danger"
	Text string `json:"text"`
}

// Session is the server-side record a signed cookie points at. A non-empty
// Username means the session is authenticated.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	Flash     *Flash    `json:"flash,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoggedIn reports whether the session carries an authenticated identity.
func (s *Session) LoggedIn() bool {
	return s != nil && s.Username != ""
}
