package models

import "github.com/StartUpFoundee/astral-guide-ai/config"

// QuotaStatus is the gate's view of the current allowance, as reported to
// the client on /api/init and after each question.
type QuotaStatus struct {
	FreeQuestionLimit int  `json:"free_question_limit"`
	QuestionsAsked    int  `json:"questions_asked"`
	Remaining         int  `json:"remaining"` // 0 when Unmetered; check that flag first
	Unmetered         bool `json:"unmetered"` // true once a subscription is active
	LimitReached      bool `json:"limit_reached"`
	// SessionID identifies the fallback session counter when no identity key
	// could be derived. Empty for identity-backed metering.
	SessionID string `json:"session_id,omitempty"`
}

// InitResponse defines the structure for the /api/init endpoint response.
type InitResponse struct {
	HasProfile       bool               `json:"has_profile"`
	IdentityKey      string             `json:"identity_key"` // Empty when the profile is incomplete
	Quota            QuotaStatus        `json:"quota"`
	LastAstrologerID string             `json:"last_astrologer_id"`
	LastCategoryID   int                `json:"last_category_id"`
	Categories       []*config.Category `json:"categories"`
}
