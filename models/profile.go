package models

import "time"

// UserProfile holds the birth details collected by the intake form. A single
// profile exists per installation; saving overwrites it wholesale.
type UserProfile struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `json:"name"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	TimeOfBirth  string     `json:"time_of_birth"`
	PlaceOfBirth string     `json:"place_of_birth"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name for UserProfile model.
func (UserProfile) TableName() string {
	return "user_profiles"
}

// SessionState remembers where the user left off so a later visit can resume
// there. Both pointers may be empty.
type SessionState struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	LastAstrologerID string    `json:"last_astrologer_id"`
	LastCategoryID   int       `json:"last_category_id"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for SessionState model.
func (SessionState) TableName() string {
	return "session_states"
}
