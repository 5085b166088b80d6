package repository

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/StartUpFoundee/astral-guide-ai/models"
)

// ConversationRepository defines the interface for per-astrologer message
// threads. Each astrologer ID owns an independent thread.
type ConversationRepository interface {
	Append(message *models.ConversationMessage) error
	Thread(astrologerID string) ([]models.ConversationMessage, error)
	Clear(astrologerID string) error
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new instance of ConversationRepository.
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// Append stores a message at the end of its astrologer's thread.
func (r *conversationRepository) Append(message *models.ConversationMessage) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.AstrologerID == "" {
		log.Printf("ERROR: [ConversationRepository] Append: astrologer ID cannot be empty.")
		return errors.New("astrologer ID cannot be empty")
	}
	if err := r.db.Create(message).Error; err != nil {
		log.Printf("ERROR: [ConversationRepository] Failed to append message for astrologer %s: %v", message.AstrologerID, err)
		return fmt.Errorf("failed to append message for astrologer %s: %w", message.AstrologerID, err)
	}
	return nil
}

// Thread returns all messages for an astrologer in insertion order. An
// unknown astrologer yields an empty slice, not an error.
func (r *conversationRepository) Thread(astrologerID string) ([]models.ConversationMessage, error) {
	if astrologerID == "" {
		return nil, errors.New("astrologer ID cannot be empty")
	}
	var messages []models.ConversationMessage
	err := r.db.Where("astrologer_id = ?", astrologerID).Order("id asc").Find(&messages).Error
	if err != nil {
		log.Printf("ERROR: [ConversationRepository] Failed to fetch thread for astrologer %s: %v", astrologerID, err)
		return nil, fmt.Errorf("failed to fetch thread for astrologer %s: %w", astrologerID, err)
	}
	return messages, nil
}

// Clear deletes an astrologer's entire thread. Other astrologers' threads
// are untouched.
func (r *conversationRepository) Clear(astrologerID string) error {
	if astrologerID == "" {
		return errors.New("astrologer ID cannot be empty")
	}
	if err := r.db.Delete(&models.ConversationMessage{}, "astrologer_id = ?", astrologerID).Error; err != nil {
		log.Printf("ERROR: [ConversationRepository] Failed to clear thread for astrologer %s: %v", astrologerID, err)
		return fmt.Errorf("failed to clear thread for astrologer %s: %w", astrologerID, err)
	}
	log.Printf("INFO: [ConversationRepository] Cleared thread for astrologer %s.", astrologerID)
	return nil
}
