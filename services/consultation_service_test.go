package services

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StartUpFoundee/astral-guide-ai/config"
	"github.com/StartUpFoundee/astral-guide-ai/models"
	"github.com/StartUpFoundee/astral-guide-ai/repository"
)

type fakeConversationRepo struct {
	threads map[string][]models.ConversationMessage
	nextID  uint
}

var _ repository.ConversationRepository = (*fakeConversationRepo)(nil)

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{threads: make(map[string][]models.ConversationMessage)}
}

func (f *fakeConversationRepo) Append(message *models.ConversationMessage) error {
	if message.AstrologerID == "" {
		return errors.New("astrologer ID cannot be empty")
	}
	f.nextID++
	message.ID = f.nextID
	f.threads[message.AstrologerID] = append(f.threads[message.AstrologerID], *message)
	return nil
}

func (f *fakeConversationRepo) Thread(astrologerID string) ([]models.ConversationMessage, error) {
	return append([]models.ConversationMessage{}, f.threads[astrologerID]...), nil
}

func (f *fakeConversationRepo) Clear(astrologerID string) error {
	delete(f.threads, astrologerID)
	return nil
}

type fakeHistoryRepo struct {
	records map[string][]models.HistoryRecord
}

var _ repository.HistoryRepository = (*fakeHistoryRepo)(nil)

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{records: make(map[string][]models.HistoryRecord)}
}

func (f *fakeHistoryRepo) Append(record *models.HistoryRecord) error {
	if record.IdentityKey == "" {
		return nil // mirror the real repository: no bucket without an identity
	}
	f.records[record.IdentityKey] = append(f.records[record.IdentityKey], *record)
	return nil
}

func (f *fakeHistoryRepo) All(identityKey string) ([]models.HistoryRecord, error) {
	return append([]models.HistoryRecord{}, f.records[identityKey]...), nil
}

type fakeProfileRepo struct {
	profile models.UserProfile
	session models.SessionState
}

var _ repository.ProfileRepository = (*fakeProfileRepo)(nil)

func (f *fakeProfileRepo) SaveProfile(p *models.UserProfile) error { f.profile = *p; return nil }
func (f *fakeProfileRepo) GetProfile() (*models.UserProfile, error) {
	p := f.profile
	return &p, nil
}
func (f *fakeProfileRepo) ResetProfile() error { f.profile = models.UserProfile{}; return nil }
func (f *fakeProfileRepo) SaveSession(s *models.SessionState) error {
	f.session = *s
	return nil
}
func (f *fakeProfileRepo) GetSession() (*models.SessionState, error) {
	s := f.session
	return &s, nil
}

type consultationFixture struct {
	service      ConsultationService
	gate         UsageGateService
	conversation *fakeConversationRepo
	history      *fakeHistoryRepo
	profile      *fakeProfileRepo
	quota        *fakeQuotaRepo
}

// newConsultationFixture wires a consultation service with the synchronous
// scheduler, so replies land before Ask returns.
func newConsultationFixture(t *testing.T, limit int) *consultationFixture {
	t.Helper()
	config.AppConfig.Categories = config.DefaultCatalog()

	quota := newFakeQuotaRepo()
	gate := NewUsageGateService(quota, limit)
	conversation := newFakeConversationRepo()
	history := newFakeHistoryRepo()
	profile := &fakeProfileRepo{}

	// Separate generators, as in main: each service owns its rand.Rand.
	service := NewConsultationService(
		conversation, history, profile,
		gate,
		NewResponseService(rand.New(rand.NewSource(1))),
		SynchronousScheduler{},
		2*time.Second, 3*time.Second,
		rand.New(rand.NewSource(2)),
	)
	return &consultationFixture{
		service:      service,
		gate:         gate,
		conversation: conversation,
		history:      history,
		profile:      profile,
		quota:        quota,
	}
}

const (
	loveAstrologerID     = "pandit-jayvant-sharma"
	marriageAstrologerID = "dr.-preeti-singh"
)

func TestConsultationService_Ask(t *testing.T) {
	fx := newConsultationFixture(t, 5)
	key := "asha_verma-1990-03-07-06:45"

	userMsg, pending, err := fx.service.Ask(key, loveAstrologerID, "Will I find love this year?")
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, "Pandit Jayvant Sharma", pending.AstrologerName)
	assert.GreaterOrEqual(t, pending.Delay, 2*time.Second)
	assert.Less(t, pending.Delay, 3*time.Second)

	t.Run("User message precedes the reply in the thread", func(t *testing.T) {
		thread, err := fx.conversation.Thread(loveAstrologerID)
		require.NoError(t, err)
		require.Len(t, thread, 2)
		assert.Equal(t, models.RoleUser, thread[0].Role)
		assert.Equal(t, "Will I find love this year?", thread[0].Text)
		assert.Equal(t, userMsg.ID, thread[0].ID)
		assert.Equal(t, models.RoleAstrologer, thread[1].Role)
		assert.NotEmpty(t, thread[1].Text)
	})

	t.Run("Question is counted against the identity", func(t *testing.T) {
		remaining, _ := fx.gate.RemainingAllowance(key)
		assert.Equal(t, 4, remaining)
	})

	t.Run("History records the resolved pair with attribution", func(t *testing.T) {
		records, err := fx.history.All(key)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Will I find love this year?", records[0].Question)
		assert.NotEmpty(t, records[0].Answer)
		assert.Equal(t, "Pandit Jayvant Sharma", records[0].AstrologerName)
		assert.Equal(t, "Love", records[0].CategoryName)
	})

	t.Run("Session pointers are updated for resume", func(t *testing.T) {
		assert.Equal(t, loveAstrologerID, fx.profile.session.LastAstrologerID)
		assert.Equal(t, 1, fx.profile.session.LastCategoryID)
	})
}

func TestConsultationService_BlankQuestionsAreRejected(t *testing.T) {
	fx := newConsultationFixture(t, 5)
	key := "asha_verma-1990-03-07-06:45"

	for _, question := range []string{"", "   ", "\n\t "} {
		_, pending, err := fx.service.Ask(key, loveAstrologerID, question)
		assert.ErrorIs(t, err, ErrEmptyQuestion, "question %q", question)
		assert.Nil(t, pending)
	}

	thread, _ := fx.conversation.Thread(loveAstrologerID)
	assert.Empty(t, thread, "a blank question must not be appended")
	remaining, _ := fx.gate.RemainingAllowance(key)
	assert.Equal(t, 5, remaining, "a blank question must not consume a credit")
}

func TestConsultationService_QuotaExhaustion(t *testing.T) {
	fx := newConsultationFixture(t, 5)
	key := "asha_verma-1990-03-07-06:45"

	for i := 0; i < 4; i++ {
		_, _, err := fx.service.Ask(key, loveAstrologerID, "question")
		require.NoError(t, err)
	}
	remaining, _ := fx.gate.RemainingAllowance(key)
	require.Equal(t, 1, remaining, "after 4 questions one remains")

	_, _, err := fx.service.Ask(key, loveAstrologerID, "fifth question")
	require.NoError(t, err)
	remaining, _ = fx.gate.RemainingAllowance(key)
	require.Equal(t, 0, remaining)
	require.True(t, fx.gate.HasReachedLimit(key))

	t.Run("Sixth send is rejected without side effects", func(t *testing.T) {
		before, _ := fx.conversation.Thread(loveAstrologerID)

		_, pending, err := fx.service.Ask(key, loveAstrologerID, "sixth question")
		assert.ErrorIs(t, err, ErrQuotaExhausted)
		assert.Nil(t, pending)

		after, _ := fx.conversation.Thread(loveAstrologerID)
		assert.Equal(t, len(before), len(after), "a rejected question must not append a message")

		records, _ := fx.history.All(key)
		assert.Len(t, records, 5, "a rejected question must not be recorded")
	})

	t.Run("Subscription reopens the gate", func(t *testing.T) {
		require.NoError(t, fx.gate.GrantSubscription())
		_, pending, err := fx.service.Ask(key, loveAstrologerID, "post-subscription question")
		assert.NoError(t, err)
		assert.NotNil(t, pending)
	})
}

func TestConsultationService_EmptyIdentityDegradesGracefully(t *testing.T) {
	fx := newConsultationFixture(t, 5)

	_, pending, err := fx.service.Ask("", loveAstrologerID, "Who am I?")
	require.NoError(t, err, "missing identity must not be a hard error")
	require.NotNil(t, pending)

	thread, _ := fx.conversation.Thread(loveAstrologerID)
	assert.Len(t, thread, 2, "chat still works without an identity")
	assert.Empty(t, fx.history.records, "history is not recorded without an identity")
	assert.Empty(t, fx.quota.counts, "no per-identity quota row without an identity")
}

func TestConsultationService_Thread(t *testing.T) {
	fx := newConsultationFixture(t, 5)

	t.Run("Empty thread is seeded with the persona greeting", func(t *testing.T) {
		thread, err := fx.service.Thread(loveAstrologerID)
		require.NoError(t, err)
		require.Len(t, thread, 1)
		assert.Equal(t, models.RoleAstrologer, thread[0].Role)
		assert.Contains(t, thread[0].Text, "Pandit Jayvant Sharma")
		assert.Contains(t, thread[0].Text, "Love & Relationship Expert")
	})

	t.Run("Unknown astrologer is rejected", func(t *testing.T) {
		_, err := fx.service.Thread("no-such-astrologer")
		assert.ErrorIs(t, err, ErrUnknownAstrologer)
	})
}

// Exercises the randomized paths of both services from concurrent
// goroutines, as gin does when serving parallel chat requests. Each service
// owns its generator, so this must stay clean under the race detector.
func TestConcurrentDrawsAcrossServices(t *testing.T) {
	responses := NewResponseService(rand.New(rand.NewSource(1)))
	svc := NewConsultationService(
		newFakeConversationRepo(), newFakeHistoryRepo(), &fakeProfileRepo{},
		NewUsageGateService(newFakeQuotaRepo(), 5),
		responses,
		SynchronousScheduler{},
		2*time.Second, 3*time.Second,
		rand.New(rand.NewSource(2)),
	).(*consultationService)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				assert.NotEmpty(t, responses.Reading())
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				d := svc.replyDelay()
				assert.GreaterOrEqual(t, d, 2*time.Second)
				assert.Less(t, d, 3*time.Second)
			}
		}()
	}
	wg.Wait()
}

func TestConsultationService_ClearThreadIsolation(t *testing.T) {
	fx := newConsultationFixture(t, 5)
	key := "asha_verma-1990-03-07-06:45"

	_, _, err := fx.service.Ask(key, loveAstrologerID, "question for love")
	require.NoError(t, err)
	_, _, err = fx.service.Ask(key, marriageAstrologerID, "question for marriage")
	require.NoError(t, err)

	require.NoError(t, fx.service.ClearThread(loveAstrologerID))

	t.Run("Cleared thread holds only the fresh greeting", func(t *testing.T) {
		thread, _ := fx.conversation.Thread(loveAstrologerID)
		require.Len(t, thread, 1)
		assert.Equal(t, models.RoleAstrologer, thread[0].Role)
		assert.Contains(t, thread[0].Text, "Namaste")
	})

	t.Run("Other threads are untouched", func(t *testing.T) {
		thread, _ := fx.conversation.Thread(marriageAstrologerID)
		assert.Len(t, thread, 2)
	})

	t.Run("Quota is untouched by a thread clear", func(t *testing.T) {
		remaining, _ := fx.gate.RemainingAllowance(key)
		assert.Equal(t, 3, remaining)
	})
}
