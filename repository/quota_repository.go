package repository

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/StartUpFoundee/astral-guide-ai/models"
)

// QuotaRepository defines the interface for interacting with per-identity
// quota data and the device-wide quota settings.
type QuotaRepository interface {
	GetQuota(identityKey string) (*models.IdentityQuota, error)
	IncrementQuota(identityKey string) (*models.IdentityQuota, error)
	ResetQuota(identityKey string) error
	GetSettings() (*models.QuotaSettings, error)
	GrantSubscription() error
}

type quotaRepository struct {
	db *gorm.DB
}

// NewQuotaRepository creates a new instance of QuotaRepository.
func NewQuotaRepository(db *gorm.DB) QuotaRepository {
	return &quotaRepository{db: db}
}

// GetQuota retrieves the current quota usage for an identity key.
// A missing row is not an error: it returns a fresh record with zero
// questions asked, which is the correct state for a new identity.
func (r *quotaRepository) GetQuota(identityKey string) (*models.IdentityQuota, error) {
	if identityKey == "" {
		log.Printf("ERROR: [QuotaRepository] GetQuota: identityKey cannot be empty.")
		return nil, errors.New("identity key cannot be empty")
	}

	var quota models.IdentityQuota
	err := r.db.First(&quota, "identity_key = ?", identityKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.IdentityQuota{IdentityKey: identityKey, QuestionsAsked: 0}, nil
		}
		log.Printf("ERROR: [QuotaRepository] Failed to fetch quota for identity %s: %v", identityKey, err)
		return nil, fmt.Errorf("failed to fetch quota for identity %s: %w", identityKey, err)
	}
	return &quota, nil
}

// IncrementQuota increments the question count for an identity key, creating
// the row on first use. Uses GORM's OnConflict (UPSERT) so the increment is a
// single statement; the row is re-fetched afterwards because the UPSERT does
// not write the incremented value back into the struct.
func (r *quotaRepository) IncrementQuota(identityKey string) (*models.IdentityQuota, error) {
	if identityKey == "" {
		log.Printf("ERROR: [QuotaRepository] IncrementQuota: identityKey cannot be empty.")
		return nil, errors.New("identity key cannot be empty")
	}

	quotaToUpsert := models.IdentityQuota{
		IdentityKey:    identityKey,
		QuestionsAsked: 1, // INSERT path of the UPSERT
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"questions_asked": gorm.Expr("questions_asked + 1")}),
	}).Create(&quotaToUpsert).Error
	if err != nil {
		log.Printf("ERROR: [QuotaRepository] Failed to increment quota for identity %s: %v", identityKey, err)
		return nil, fmt.Errorf("failed to increment quota for identity %s: %w", identityKey, err)
	}

	var currentQuota models.IdentityQuota
	if fetchErr := r.db.First(&currentQuota, "identity_key = ?", identityKey).Error; fetchErr != nil {
		log.Printf("ERROR: [QuotaRepository] Failed to fetch quota for identity %s after increment: %v", identityKey, fetchErr)
		return nil, fmt.Errorf("failed to fetch quota for identity %s after increment: %w", identityKey, fetchErr)
	}

	log.Printf("INFO: [QuotaRepository] Incremented quota for identity %s. New count: %d", identityKey, currentQuota.QuestionsAsked)
	return &currentQuota, nil
}

// ResetQuota removes the quota row for an identity key. The only path that
// ever lowers a count; reached from an explicit user reset.
func (r *quotaRepository) ResetQuota(identityKey string) error {
	if identityKey == "" {
		return errors.New("identity key cannot be empty")
	}
	if err := r.db.Delete(&models.IdentityQuota{}, "identity_key = ?", identityKey).Error; err != nil {
		log.Printf("ERROR: [QuotaRepository] Failed to reset quota for identity %s: %v", identityKey, err)
		return fmt.Errorf("failed to reset quota for identity %s: %w", identityKey, err)
	}
	log.Printf("INFO: [QuotaRepository] Reset quota for identity %s.", identityKey)
	return nil
}

// GetSettings retrieves the device-wide quota settings. A missing row yields
// the defaults (no subscription) rather than an error, so older databases
// that predate the settings table migrate cleanly.
func (r *quotaRepository) GetSettings() (*models.QuotaSettings, error) {
	var settings models.QuotaSettings
	err := r.db.First(&settings, "id = ?", 1).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.QuotaSettings{ID: 1, HasSubscription: false}, nil
		}
		log.Printf("ERROR: [QuotaRepository] Failed to fetch quota settings: %v", err)
		return nil, fmt.Errorf("failed to fetch quota settings: %w", err)
	}
	return &settings, nil
}

// GrantSubscription persists the subscription flag. This is terminal: there
// is no revoke path.
func (r *quotaRepository) GrantSubscription() error {
	settings := models.QuotaSettings{ID: 1, HasSubscription: true}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"has_subscription": true}),
	}).Create(&settings).Error
	if err != nil {
		log.Printf("ERROR: [QuotaRepository] Failed to grant subscription: %v", err)
		return fmt.Errorf("failed to grant subscription: %w", err)
	}
	log.Printf("INFO: [QuotaRepository] Subscription granted (device-wide).")
	return nil
}
