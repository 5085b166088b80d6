package models

import "time"

// IdentityQuota tracks how many free questions a derived identity has asked.
// The identity key is a pure function of the user's birth details, so the
// same person always lands on the same row.
type IdentityQuota struct {
	IdentityKey    string    `gorm:"primaryKey" json:"identity_key"`
	QuestionsAsked int       `gorm:"default:0" json:"questions_asked"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for IdentityQuota model.
func (IdentityQuota) TableName() string {
	return "identity_quotas"
}

// QuotaSettings is a single-row table holding device-wide quota settings.
// HasSubscription is deliberately global rather than per-identity, matching
// the observed behavior of the client this service replaces.
type QuotaSettings struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	HasSubscription bool      `gorm:"default:false" json:"has_subscription"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for QuotaSettings model.
func (QuotaSettings) TableName() string {
	return "quota_settings"
}
