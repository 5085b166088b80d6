package services

import (
	"errors"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/StartUpFoundee/astral-guide-ai/config"
	"github.com/StartUpFoundee/astral-guide-ai/models"
	"github.com/StartUpFoundee/astral-guide-ai/repository"
)

// Business outcomes of Ask. ErrQuotaExhausted is not a failure: it is the
// defined signal that the upsell prompt must be shown instead of a message.
var (
	ErrQuotaExhausted    = errors.New("free question limit reached")
	ErrUnknownAstrologer = errors.New("astrologer not found")
	ErrEmptyQuestion     = errors.New("question cannot be empty")
)

// PendingReply describes the astrologer answer that has been scheduled but
// not yet delivered.
type PendingReply struct {
	AstrologerName string        `json:"astrologer_name"`
	Delay          time.Duration `json:"-"`
	DelaySecs      float64       `json:"delay_secs"`

	handle *ScheduledReply
}

// Cancel aborts the pending reply if it has not fired yet.
func (p *PendingReply) Cancel() bool {
	if p == nil {
		return false
	}
	return p.handle.Cancel()
}

// ConsultationService drives a chat with one astrologer: gate check, message
// append, quota record, and the deferred canned reply.
type ConsultationService interface {
	Ask(identityKey, astrologerID string, question string) (*models.ConversationMessage, *PendingReply, error)
	Thread(astrologerID string) ([]models.ConversationMessage, error)
	ClearThread(astrologerID string) error
}

type consultationService struct {
	conversationRepo repository.ConversationRepository
	historyRepo      repository.HistoryRepository
	profileRepo      repository.ProfileRepository
	gate             UsageGateService
	responses        ResponseService
	scheduler        ReplyScheduler

	delayMin time.Duration
	delayMax time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewConsultationService wires the consultation flow. delayMin/delayMax
// bound the simulated thinking time before a reply. The service takes
// ownership of rng; it must not be shared with other components.
func NewConsultationService(
	conversationRepo repository.ConversationRepository,
	historyRepo repository.HistoryRepository,
	profileRepo repository.ProfileRepository,
	gate UsageGateService,
	responses ResponseService,
	scheduler ReplyScheduler,
	delayMin, delayMax time.Duration,
	rng *rand.Rand,
) ConsultationService {
	if delayMax < delayMin {
		delayMax = delayMin
	}
	return &consultationService{
		conversationRepo: conversationRepo,
		historyRepo:      historyRepo,
		profileRepo:      profileRepo,
		gate:             gate,
		responses:        responses,
		scheduler:        scheduler,
		delayMin:         delayMin,
		delayMax:         delayMax,
		rng:              rng,
	}
}

func (s *consultationService) replyDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delayMax == s.delayMin {
		return s.delayMin
	}
	return s.delayMin + time.Duration(s.rng.Int63n(int64(s.delayMax-s.delayMin)))
}

// Ask accepts a question for the given astrologer. Order matters: the gate
// is consulted first (an Exhausted identity gets ErrQuotaExhausted and
// nothing is appended), then the user message is persisted, then the quota
// increment is persisted, and only then is the reply timer armed. A restart
// between question and reply can therefore never lose the count.
func (s *consultationService) Ask(identityKey, astrologerID string, question string) (*models.ConversationMessage, *PendingReply, error) {
	if strings.TrimSpace(question) == "" {
		return nil, nil, ErrEmptyQuestion
	}
	astrologer, category := config.FindAstrologer(astrologerID)
	if astrologer == nil {
		return nil, nil, ErrUnknownAstrologer
	}

	if s.gate.HasReachedLimit(identityKey) {
		log.Printf("INFO: [Consultation] Identity '%s' is out of free questions; rejecting without appending.", identityKey)
		return nil, nil, ErrQuotaExhausted
	}

	userMessage := &models.ConversationMessage{
		AstrologerID: astrologerID,
		Role:         models.RoleUser,
		Text:         question,
		Timestamp:    time.Now(),
	}
	if err := s.conversationRepo.Append(userMessage); err != nil {
		return nil, nil, err
	}

	if err := s.gate.RecordQuestion(identityKey); err != nil {
		// The message is already in the thread; surface the quota failure so
		// the caller knows metering is degraded.
		return userMessage, nil, err
	}

	s.rememberSession(astrologerID, category)

	delay := s.replyDelay()
	answer := s.responses.Reading()
	astrologerName := astrologer.Name
	categoryName := category.Title

	handle := s.scheduler.Schedule(delay, func() {
		reply := &models.ConversationMessage{
			AstrologerID: astrologerID,
			Role:         models.RoleAstrologer,
			Text:         answer,
			Timestamp:    time.Now(),
		}
		if err := s.conversationRepo.Append(reply); err != nil {
			log.Printf("ERROR: [Consultation] Failed to append reply from %s: %v", astrologerName, err)
			return
		}
		record := &models.HistoryRecord{
			IdentityKey:    identityKey,
			Question:       question,
			Answer:         answer,
			AstrologerName: astrologerName,
			CategoryName:   categoryName,
			Timestamp:      reply.Timestamp,
		}
		if err := s.historyRepo.Append(record); err != nil {
			log.Printf("ERROR: [Consultation] Failed to record history for identity '%s': %v", identityKey, err)
		}
	})

	return userMessage, &PendingReply{
		AstrologerName: astrologerName,
		Delay:          delay,
		DelaySecs:      delay.Seconds(),
		handle:         handle,
	}, nil
}

// Thread returns an astrologer's conversation, seeding the persona greeting
// when the thread is empty (first visit or after a clear).
func (s *consultationService) Thread(astrologerID string) ([]models.ConversationMessage, error) {
	astrologer, _ := config.FindAstrologer(astrologerID)
	if astrologer == nil {
		return nil, ErrUnknownAstrologer
	}
	messages, err := s.conversationRepo.Thread(astrologerID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		greeting := &models.ConversationMessage{
			AstrologerID: astrologerID,
			Role:         models.RoleAstrologer,
			Text:         s.responses.Greeting(astrologer),
			Timestamp:    time.Now(),
		}
		if err := s.conversationRepo.Append(greeting); err != nil {
			return nil, err
		}
		messages = []models.ConversationMessage{*greeting}
	}
	return messages, nil
}

// ClearThread wipes an astrologer's conversation and re-seeds the greeting.
// Other threads and the quota are untouched.
func (s *consultationService) ClearThread(astrologerID string) error {
	astrologer, _ := config.FindAstrologer(astrologerID)
	if astrologer == nil {
		return ErrUnknownAstrologer
	}
	if err := s.conversationRepo.Clear(astrologerID); err != nil {
		return err
	}
	greeting := &models.ConversationMessage{
		AstrologerID: astrologerID,
		Role:         models.RoleAstrologer,
		Text:         s.responses.Greeting(astrologer),
		Timestamp:    time.Now(),
	}
	return s.conversationRepo.Append(greeting)
}

// rememberSession stores the resume pointers. Failure here only costs the
// resume convenience, so it is logged and swallowed.
func (s *consultationService) rememberSession(astrologerID string, category *config.Category) {
	state := &models.SessionState{LastAstrologerID: astrologerID}
	if category != nil {
		state.LastCategoryID = category.ID
	}
	if err := s.profileRepo.SaveSession(state); err != nil {
		log.Printf("WARN: [Consultation] Could not save session pointers: %v", err)
	}
}
