package entity

import "time"

// ChatRole is the author of an assistant-chat message.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one turn in the assistant conversation. When the AI
// extractor finds a candidate transaction in the user's message, the
// candidate is stored on the reply as Pending until the user confirms it.
type ChatMessage struct {
	ID             string       `json:"id"`
	AccountID      string       `json:"account_id"`
	Role           ChatRole     `json:"role"`
	Text           string       `json:"text"`
	ImageURL       string       `json:"image_url,omitempty"`
	Pending        *Transaction `json:"pending_data,omitempty"`
	ActionRequired bool         `json:"action_required"`
	Timestamp      time.Time    `json:"timestamp"`
}

// P2PMessage is one message in the direct client–accountant channel,
// opened after the service is booked and paid.
type P2PMessage struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
}
