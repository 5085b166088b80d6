package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/StartUpFoundee/astral-guide-ai/config"
	"github.com/StartUpFoundee/astral-guide-ai/models"
	"github.com/StartUpFoundee/astral-guide-ai/repository"
	"github.com/StartUpFoundee/astral-guide-ai/services"
	"github.com/StartUpFoundee/astral-guide-ai/utils"
)

// APIHandler holds all dependencies for API handlers, such as repositories and services.
type APIHandler struct {
	profileRepo  repository.ProfileRepository
	quotaRepo    repository.QuotaRepository
	gate         services.UsageGateService
	consultation services.ConsultationService
	history      services.HistoryService
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(
	profileRepo repository.ProfileRepository,
	quotaRepo repository.QuotaRepository,
	gate services.UsageGateService,
	consultation services.ConsultationService,
	history services.HistoryService,
) *APIHandler {
	return &APIHandler{
		profileRepo:  profileRepo,
		quotaRepo:    quotaRepo,
		gate:         gate,
		consultation: consultation,
		history:      history,
	}
}

// identityKey derives the caller's identity key from the stored profile.
// Empty when the profile is incomplete; that is a valid state, not an error.
func (h *APIHandler) identityKey() string {
	profile, err := h.profileRepo.GetProfile()
	if err != nil {
		log.Printf("WARN: [API] Could not load profile for identity derivation: %v", err)
		return ""
	}
	return utils.DeriveIdentityKey(profile.Name, profile.DateOfBirth, profile.TimeOfBirth)
}

// InitHandler returns everything the client needs on startup: whether a
// profile exists, the quota state, the resume pointers and the catalog.
// GET /api/init
func (h *APIHandler) InitHandler(c *gin.Context) {
	profile, err := h.profileRepo.GetProfile()
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to load profile.", err)
		return
	}
	identityKey := utils.DeriveIdentityKey(profile.Name, profile.DateOfBirth, profile.TimeOfBirth)

	session, err := h.profileRepo.GetSession()
	if err != nil {
		log.Printf("WARN: [API] Could not load session pointers: %v", err)
		session = &models.SessionState{}
	}

	response := models.InitResponse{
		HasProfile:       identityKey != "",
		IdentityKey:      identityKey,
		Quota:            h.gate.Status(identityKey),
		LastAstrologerID: session.LastAstrologerID,
		LastCategoryID:   session.LastCategoryID,
		Categories:       config.AppConfig.Categories,
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "ok",
		"data":    response,
	})
}

// ProfileRequest is the intake form payload. All four fields are required,
// matching the client-side form validation.
type ProfileRequest struct {
	Name         string `json:"name" binding:"required"`
	DateOfBirth  string `json:"date_of_birth" binding:"required"` // "2006-01-02"
	TimeOfBirth  string `json:"time_of_birth" binding:"required"`
	PlaceOfBirth string `json:"place_of_birth" binding:"required"`
}

// SaveProfileHandler stores the birth details from the intake form.
// POST /api/profile
func (h *APIHandler) SaveProfileHandler(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "date_of_birth must be formatted as YYYY-MM-DD.", err)
		return
	}

	profile := &models.UserProfile{
		Name:         req.Name,
		DateOfBirth:  &dob,
		TimeOfBirth:  req.TimeOfBirth,
		PlaceOfBirth: req.PlaceOfBirth,
	}
	if err := h.profileRepo.SaveProfile(profile); err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to save profile.", err)
		return
	}

	identityKey := utils.DeriveIdentityKey(profile.Name, profile.DateOfBirth, profile.TimeOfBirth)
	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Details saved successfully",
		"data": gin.H{
			"identity_key": identityKey,
			"quota":        h.gate.Status(identityKey),
		},
	})
}

// GetProfileHandler returns the stored profile.
// GET /api/profile
func (h *APIHandler) GetProfileHandler(c *gin.Context) {
	profile, err := h.profileRepo.GetProfile()
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to load profile.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "ok",
		"data":    profile,
	})
}

// ResetProfileHandler wipes the stored profile and the identity's quota row
// on explicit user action. The only path that ever lowers a count.
// POST /api/profile/reset
func (h *APIHandler) ResetProfileHandler(c *gin.Context) {
	identityKey := h.identityKey()
	if identityKey != "" {
		if err := h.quotaRepo.ResetQuota(identityKey); err != nil {
			utils.SendJSONError(c, http.StatusInternalServerError, "Failed to reset quota.", err)
			return
		}
	}
	if err := h.profileRepo.ResetProfile(); err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to reset profile.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Profile reset",
	})
}

// CategoriesHandler lists the consultation categories.
// GET /api/categories
func (h *APIHandler) CategoriesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "ok",
		"data":    config.AppConfig.Categories,
	})
}

// CategoryAstrologersHandler lists the astrologers of one category.
// GET /api/categories/:categoryID/astrologers
func (h *APIHandler) CategoryAstrologersHandler(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("categoryID"))
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid category ID.", err)
		return
	}
	category := config.FindCategory(categoryID)
	if category == nil {
		utils.SendJSONError(c, http.StatusNotFound, "Category not found.", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "ok",
		"data":    category,
	})
}

// SubscribeRequest names the chosen plan. The plan only flavors the success
// message; there is no payment flow behind this.
type SubscribeRequest struct {
	Plan string `json:"plan" binding:"required,oneof=monthly yearly"`
}

// SubscribeHandler grants the subscription, unmetering every identity.
// POST /api/subscription
func (h *APIHandler) SubscribeHandler(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: plan must be 'monthly' or 'yearly'.", err)
		return
	}

	if err := h.gate.GrantSubscription(); err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to activate subscription.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Successfully subscribed to the " + req.Plan + " plan!",
		"data":    h.gate.Status(h.identityKey()),
	})
}

// requireIdentity resolves the identity key or answers with the prompt to
// complete the profile. History is meaningless without an identity.
func (h *APIHandler) requireIdentity(c *gin.Context) (string, bool) {
	identityKey := h.identityKey()
	if identityKey == "" {
		utils.SendJSONError(c, http.StatusConflict, "Please enter your birth details before viewing your history.", errors.New("no identity key derivable"))
		return "", false
	}
	return identityKey, true
}

// HistoryHandler returns the flat consultation history.
// GET /api/history
func (h *APIHandler) HistoryHandler(c *gin.Context) {
	identityKey, ok := h.requireIdentity(c)
	if !ok {
		return
	}
	records, err := h.history.All(identityKey)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch history.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "ok",
		"data":    records,
	})
}

// GroupedHistoryHandler returns the history partitioned by calendar date.
// GET /api/history/grouped
func (h *APIHandler) GroupedHistoryHandler(c *gin.Context) {
	identityKey, ok := h.requireIdentity(c)
	if !ok {
		return
	}
	grouped, err := h.history.GroupedByDate(identityKey)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch history.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "ok",
		"data":    grouped,
	})
}

// ExportHistoryHandler streams the history as a CSV download.
// GET /api/history/export
func (h *APIHandler) ExportHistoryHandler(c *gin.Context) {
	identityKey, ok := h.requireIdentity(c)
	if !ok {
		return
	}
	data, err := h.history.ExportCSV(identityKey)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to export history.", err)
		return
	}
	filename := "astrology-history-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
