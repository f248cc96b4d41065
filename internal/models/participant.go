package models

import "time"

// ParticipantEntry is one durable draw registration. Entries are
// append-only: there is no update or delete path.
type ParticipantEntry struct {
	ID               int64     `json:"id"`
	Date             time.Time `json:"date"`
	CodeWord         string    `json:"code_word"`
	UserID           int64     `json:"user_id"`
	DisplayName      string    `json:"display_name,omitempty"`
	Handle           string    `json:"handle,omitempty"`
	Phone            string    `json:"phone"`
	RegistrationTime time.Time `json:"registration_time"`
	CreatedAt        time.Time `json:"created_at"`
}
