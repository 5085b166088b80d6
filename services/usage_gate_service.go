package services

import (
	"log"
	"sync"

	"github.com/StartUpFoundee/astral-guide-ai/models"
	"github.com/StartUpFoundee/astral-guide-ai/repository"
	"github.com/StartUpFoundee/astral-guide-ai/utils"
)

// UsageGateService decides whether a new question may be asked or must be
// blocked pending a subscription. Per identity the gate is in one of three
// states: Unmetered (subscription active), Metered (count below the free
// limit) or Exhausted (count at or above the limit).
//
// When no identity key can be derived (incomplete birth details) the gate
// degrades to a session-only counter that resets on restart. That fallback is
// a defined behavior, not an error path.
type UsageGateService interface {
	RemainingAllowance(identityKey string) (remaining int, unmetered bool)
	HasReachedLimit(identityKey string) bool
	RecordQuestion(identityKey string) error
	GrantSubscription() error
	Status(identityKey string) models.QuotaStatus
}

type usageGateService struct {
	quotaRepo repository.QuotaRepository
	limit     int

	mu           sync.Mutex
	sessionCount int    // fallback counter for identity-less sessions
	sessionID    string // names the fallback counter in logs and responses
}

// NewUsageGateService creates a usage gate over the given quota repository.
// limit is the number of free questions each identity gets.
func NewUsageGateService(quotaRepo repository.QuotaRepository, limit int) UsageGateService {
	return &usageGateService{
		quotaRepo: quotaRepo,
		limit:     limit,
		sessionID: utils.NewSessionID(),
	}
}

// questionsAsked resolves the current count for an identity. Storage trouble
// degrades to zero rather than failing: a corrupt or missing record must
// never block the user.
func (s *usageGateService) questionsAsked(identityKey string) int {
	if identityKey == "" {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.sessionCount
	}
	quota, err := s.quotaRepo.GetQuota(identityKey)
	if err != nil {
		log.Printf("WARN: [UsageGate] Could not read quota for identity %s, assuming 0: %v", identityKey, err)
		return 0
	}
	return quota.QuestionsAsked
}

func (s *usageGateService) hasSubscription() bool {
	settings, err := s.quotaRepo.GetSettings()
	if err != nil {
		log.Printf("WARN: [UsageGate] Could not read quota settings, assuming no subscription: %v", err)
		return false
	}
	return settings.HasSubscription
}

// RemainingAllowance returns how many free questions remain for the identity.
// unmetered is true once a subscription is active; remaining is meaningless
// in that case and callers must check the flag first.
func (s *usageGateService) RemainingAllowance(identityKey string) (int, bool) {
	if s.hasSubscription() {
		return 0, true
	}
	remaining := s.limit - s.questionsAsked(identityKey)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, false
}

// HasReachedLimit reports whether the identity is Exhausted. Always false
// with an active subscription, no matter how high the count is.
func (s *usageGateService) HasReachedLimit(identityKey string) bool {
	if s.hasSubscription() {
		return false
	}
	return s.questionsAsked(identityKey) >= s.limit
}

// RecordQuestion counts one asked question. The per-identity row is
// persisted before this returns, so a crash between the question and its
// answer cannot lose the count. The session counter always moves as well,
// for backward compatibility with the old session-scoped metering; with an
// empty identity key the session counter is all there is.
func (s *usageGateService) RecordQuestion(identityKey string) error {
	s.mu.Lock()
	s.sessionCount++
	sessionCount := s.sessionCount
	s.mu.Unlock()

	if identityKey == "" {
		log.Printf("INFO: [UsageGate] No identity key; session %s count is now %d.", s.sessionID, sessionCount)
		return nil
	}

	quota, err := s.quotaRepo.IncrementQuota(identityKey)
	if err != nil {
		return err
	}
	log.Printf("INFO: [UsageGate] Identity %s has now asked %d/%d free questions.", identityKey, quota.QuestionsAsked, s.limit)
	return nil
}

// GrantSubscription flips the device-wide subscription flag, moving every
// identity to Unmetered. Scoping the flag per identity instead is an open
// question; see DESIGN.md.
func (s *usageGateService) GrantSubscription() error {
	return s.quotaRepo.GrantSubscription()
}

// Status snapshots the gate for the client. When metering runs on the
// session fallback the session ID is included, so the client can correlate
// its counts with the server logs.
func (s *usageGateService) Status(identityKey string) models.QuotaStatus {
	remaining, unmetered := s.RemainingAllowance(identityKey)
	asked := 0
	if !unmetered {
		asked = s.questionsAsked(identityKey)
	}
	status := models.QuotaStatus{
		FreeQuestionLimit: s.limit,
		QuestionsAsked:    asked,
		Remaining:         remaining,
		Unmetered:         unmetered,
		LimitReached:      s.HasReachedLimit(identityKey),
	}
	if identityKey == "" {
		status.SessionID = s.sessionID
	}
	return status
}
