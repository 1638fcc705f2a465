package models

import "time"

// Snippet is a shared piece of code or text. Title is optional, Code is
// required. CreatedBy is kept in the schema but current flows never set it.
type Snippet struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Code      string    `json:"code"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
