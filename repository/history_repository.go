package repository

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/StartUpFoundee/astral-guide-ai/models"
)

// HistoryRepository defines the interface for the per-identity consultation
// history. Append-only: records are never updated or deleted.
type HistoryRepository interface {
	Append(record *models.HistoryRecord) error
	All(identityKey string) ([]models.HistoryRecord, error)
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new instance of HistoryRepository.
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Append stores a resolved question/answer pair. An empty identity key is a
// silent no-op: without complete birth details there is no bucket to record
// into, and that must never surface as an error.
func (r *historyRepository) Append(record *models.HistoryRecord) error {
	if record == nil {
		return errors.New("history record cannot be nil")
	}
	if record.IdentityKey == "" {
		log.Printf("INFO: [HistoryRepository] Append skipped: no identity key (incomplete profile).")
		return nil
	}
	if err := r.db.Create(record).Error; err != nil {
		log.Printf("ERROR: [HistoryRepository] Failed to append history record for identity %s: %v", record.IdentityKey, err)
		return fmt.Errorf("failed to append history record for identity %s: %w", record.IdentityKey, err)
	}
	return nil
}

// All returns every history record for an identity in insertion order.
// An identity with no history yields an empty slice.
func (r *historyRepository) All(identityKey string) ([]models.HistoryRecord, error) {
	if identityKey == "" {
		return []models.HistoryRecord{}, nil
	}
	var records []models.HistoryRecord
	err := r.db.Where("identity_key = ?", identityKey).Order("id asc").Find(&records).Error
	if err != nil {
		log.Printf("ERROR: [HistoryRepository] Failed to fetch history for identity %s: %v", identityKey, err)
		return nil, fmt.Errorf("failed to fetch history for identity %s: %w", identityKey, err)
	}
	return records, nil
}
