package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StartUpFoundee/astral-guide-ai/models"
)

func appendMessage(t *testing.T, repo ConversationRepository, astrologerID, role, text string) {
	t.Helper()
	require.NoError(t, repo.Append(&models.ConversationMessage{
		AstrologerID: astrologerID,
		Role:         role,
		Text:         text,
		Timestamp:    time.Now(),
	}))
}

func TestConversationRepository_ThreadsAreIndependent(t *testing.T) {
	repo := NewConversationRepository(testDB(t))

	appendMessage(t, repo, "astrologer-x", models.RoleUser, "hello x")
	appendMessage(t, repo, "astrologer-x", models.RoleAstrologer, "namaste")
	appendMessage(t, repo, "astrologer-y", models.RoleUser, "hello y")

	x, err := repo.Thread("astrologer-x")
	require.NoError(t, err)
	require.Len(t, x, 2)
	assert.Equal(t, "hello x", x[0].Text)
	assert.Equal(t, "namaste", x[1].Text, "insertion order is preserved")

	y, err := repo.Thread("astrologer-y")
	require.NoError(t, err)
	require.Len(t, y, 1)
	assert.Equal(t, "hello y", y[0].Text)
}

func TestConversationRepository_ClearAffectsOneThread(t *testing.T) {
	repo := NewConversationRepository(testDB(t))

	appendMessage(t, repo, "astrologer-x", models.RoleUser, "hello x")
	appendMessage(t, repo, "astrologer-y", models.RoleUser, "hello y")

	require.NoError(t, repo.Clear("astrologer-x"))

	x, err := repo.Thread("astrologer-x")
	require.NoError(t, err)
	assert.Empty(t, x)

	y, err := repo.Thread("astrologer-y")
	require.NoError(t, err)
	assert.Len(t, y, 1)
}

func TestHistoryRepository_AppendAndAll(t *testing.T) {
	repo := NewHistoryRepository(testDB(t))
	key := "asha_verma-1990-03-07-06:45"

	require.NoError(t, repo.Append(&models.HistoryRecord{
		IdentityKey:    key,
		Question:       "q1",
		Answer:         "a1",
		AstrologerName: "Pandit Jayvant Sharma",
		CategoryName:   "Love",
		Timestamp:      time.Now(),
	}))

	t.Run("Empty identity key is a silent no-op", func(t *testing.T) {
		require.NoError(t, repo.Append(&models.HistoryRecord{Question: "orphan", Answer: "x"}))
		records, err := repo.All("")
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Records come back in insertion order, scoped by identity", func(t *testing.T) {
		require.NoError(t, repo.Append(&models.HistoryRecord{IdentityKey: key, Question: "q2", Answer: "a2", Timestamp: time.Now()}))
		require.NoError(t, repo.Append(&models.HistoryRecord{IdentityKey: "other", Question: "q3", Answer: "a3", Timestamp: time.Now()}))

		records, err := repo.All(key)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "q1", records[0].Question)
		assert.Equal(t, "q2", records[1].Question)
	})
}

func TestProfileRepository_RoundTrip(t *testing.T) {
	repo := NewProfileRepository(testDB(t))

	t.Run("Missing profile reads as empty, not an error", func(t *testing.T) {
		profile, err := repo.GetProfile()
		require.NoError(t, err)
		assert.Empty(t, profile.Name)
		assert.Nil(t, profile.DateOfBirth)
	})

	dob := time.Date(1990, time.March, 7, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveProfile(&models.UserProfile{
		Name:         "Asha Verma",
		DateOfBirth:  &dob,
		TimeOfBirth:  "06:45",
		PlaceOfBirth: "Pune",
	}))

	t.Run("Saving overwrites wholesale", func(t *testing.T) {
		require.NoError(t, repo.SaveProfile(&models.UserProfile{
			Name:         "Asha V",
			DateOfBirth:  &dob,
			TimeOfBirth:  "06:50",
			PlaceOfBirth: "Mumbai",
		}))
		profile, err := repo.GetProfile()
		require.NoError(t, err)
		assert.Equal(t, "Asha V", profile.Name)
		assert.Equal(t, "06:50", profile.TimeOfBirth)
		assert.Equal(t, "Mumbai", profile.PlaceOfBirth)
	})

	t.Run("Reset clears the profile", func(t *testing.T) {
		require.NoError(t, repo.ResetProfile())
		profile, err := repo.GetProfile()
		require.NoError(t, err)
		assert.Empty(t, profile.Name)
	})

	t.Run("Session pointers round-trip", func(t *testing.T) {
		require.NoError(t, repo.SaveSession(&models.SessionState{
			LastAstrologerID: "pandit-jayvant-sharma",
			LastCategoryID:   1,
		}))
		state, err := repo.GetSession()
		require.NoError(t, err)
		assert.Equal(t, "pandit-jayvant-sharma", state.LastAstrologerID)
		assert.Equal(t, 1, state.LastCategoryID)
	})
}
