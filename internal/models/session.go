package models

// Stage identifies where a user is in the registration conversation.
type Stage string

const (
	// StageAwaitingCode means the bot is waiting for the code word.
	StageAwaitingCode Stage = "awaiting_code"
	// StageAwaitingPhone means the code word was accepted and the bot is
	// waiting for a phone number.
	StageAwaitingPhone Stage = "awaiting_phone"
)

// Session is the transient per-user conversation state. It exists only
// while a registration is in progress and is cleared on completion,
// cancellation, or expiry.
type Session struct {
	UserID   int64  `json:"user_id"`
	Stage    Stage  `json:"stage"`
	CodeWord string `json:"code_word,omitempty"`
}
