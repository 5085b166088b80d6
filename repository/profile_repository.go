package repository

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/StartUpFoundee/astral-guide-ai/models"
)

// ProfileRepository manages the single user profile and the "last session"
// pointers used to resume where the user left off.
type ProfileRepository interface {
	SaveProfile(profile *models.UserProfile) error
	GetProfile() (*models.UserProfile, error)
	ResetProfile() error
	SaveSession(state *models.SessionState) error
	GetSession() (*models.SessionState, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// SaveProfile overwrites the stored profile wholesale. There is exactly one
// profile row (ID 1).
func (r *profileRepository) SaveProfile(profile *models.UserProfile) error {
	if profile == nil {
		return errors.New("profile cannot be nil")
	}
	profile.ID = 1
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"name":           profile.Name,
			"date_of_birth":  profile.DateOfBirth,
			"time_of_birth":  profile.TimeOfBirth,
			"place_of_birth": profile.PlaceOfBirth,
		}),
	}).Create(profile).Error
	if err != nil {
		log.Printf("ERROR: [ProfileRepository] Failed to save profile: %v", err)
		return fmt.Errorf("failed to save profile: %w", err)
	}
	log.Printf("INFO: [ProfileRepository] Profile saved for '%s'.", profile.Name)
	return nil
}

// GetProfile returns the stored profile, or an empty profile when none has
// been saved yet. Absence is never an error.
func (r *profileRepository) GetProfile() (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.First(&profile, "id = ?", 1).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.UserProfile{}, nil
		}
		log.Printf("ERROR: [ProfileRepository] Failed to fetch profile: %v", err)
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &profile, nil
}

// ResetProfile deletes the stored profile. Explicit user action only.
func (r *profileRepository) ResetProfile() error {
	if err := r.db.Delete(&models.UserProfile{}, "id = ?", 1).Error; err != nil {
		log.Printf("ERROR: [ProfileRepository] Failed to reset profile: %v", err)
		return fmt.Errorf("failed to reset profile: %w", err)
	}
	log.Printf("INFO: [ProfileRepository] Profile reset.")
	return nil
}

// SaveSession stores the last astrologer/category pointers (single row).
func (r *profileRepository) SaveSession(state *models.SessionState) error {
	if state == nil {
		return errors.New("session state cannot be nil")
	}
	state.ID = 1
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_astrologer_id": state.LastAstrologerID,
			"last_category_id":   state.LastCategoryID,
		}),
	}).Create(state).Error
	if err != nil {
		log.Printf("ERROR: [ProfileRepository] Failed to save session state: %v", err)
		return fmt.Errorf("failed to save session state: %w", err)
	}
	return nil
}

// GetSession returns the stored session pointers, or zero values when the
// user has never visited.
func (r *profileRepository) GetSession() (*models.SessionState, error) {
	var state models.SessionState
	err := r.db.First(&state, "id = ?", 1).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.SessionState{}, nil
		}
		log.Printf("ERROR: [ProfileRepository] Failed to fetch session state: %v", err)
		return nil, fmt.Errorf("failed to fetch session state: %w", err)
	}
	return &state, nil
}
