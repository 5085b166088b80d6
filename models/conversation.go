package models

import "time"

// Message sender roles.
const (
	RoleUser       = "user"
	RoleAstrologer = "astrologer"
)

// ConversationMessage is one message in the thread with a specific
// astrologer. Threads are keyed by AstrologerID and never mix.
type ConversationMessage struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AstrologerID string    `json:"astrologer_id" gorm:"index"`
	Role         string    `json:"role"` // "user" or "astrologer"
	Text         string    `json:"text"`
	Timestamp    time.Time `json:"timestamp"`
}

// TableName specifies the table name for ConversationMessage model.
func (ConversationMessage) TableName() string {
	return "conversation_messages"
}
