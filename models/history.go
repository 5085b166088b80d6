package models

import "time"

// HistoryRecord is one resolved question/answer pair in a user's
// consultation history. Records are append-only; they are never updated.
type HistoryRecord struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	IdentityKey    string    `json:"identity_key" gorm:"index"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	AstrologerName string    `json:"astrologer"`
	CategoryName   string    `json:"category"`
	Timestamp      time.Time `json:"timestamp"`
}

// TableName specifies the table name for HistoryRecord model.
func (HistoryRecord) TableName() string {
	return "history_records"
}
