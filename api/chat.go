package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StartUpFoundee/astral-guide-ai/services"
	"github.com/StartUpFoundee/astral-guide-ai/utils"
)

// ChatRequest is the payload for asking an astrologer a question.
type ChatRequest struct {
	AstrologerID string `json:"astrologer_id" binding:"required"`
	Question     string `json:"question" binding:"required"`
}

// ChatHandler accepts a question. When the free allowance is exhausted and
// no subscription is active it answers 403 with upsell=true instead of
// appending anything; that is the business rule, not an error condition.
// POST /api/chat
func (h *APIHandler) ChatHandler(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	identityKey := h.identityKey()
	log.Printf("INFO: [API] Question for astrologer '%s' from identity '%s'.", req.AstrologerID, identityKey)

	userMessage, pending, err := h.consultation.Ask(identityKey, req.AstrologerID, req.Question)
	switch {
	case errors.Is(err, services.ErrQuotaExhausted):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code":    403,
			"message": "You have used all your free questions. Subscribe for unlimited consultations.",
			"data": gin.H{
				"upsell": true,
				"quota":  h.gate.Status(identityKey),
			},
		})
		return
	case errors.Is(err, services.ErrUnknownAstrologer):
		utils.SendJSONError(c, http.StatusNotFound, "Astrologer not found.", err)
		return
	case errors.Is(err, services.ErrEmptyQuestion):
		utils.SendJSONError(c, http.StatusBadRequest, "Question cannot be empty.", err)
		return
	case err != nil:
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to process your question.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "ok",
		"data": gin.H{
			"message":       userMessage,
			"pending_reply": pending,
			"quota":         h.gate.Status(identityKey),
		},
	})
}

// ThreadHandler returns the conversation with one astrologer, seeding the
// greeting on first load.
// GET /api/chat/:astrologerID/messages
func (h *APIHandler) ThreadHandler(c *gin.Context) {
	astrologerID := c.Param("astrologerID")

	messages, err := h.consultation.Thread(astrologerID)
	if errors.Is(err, services.ErrUnknownAstrologer) {
		utils.SendJSONError(c, http.StatusNotFound, "Astrologer not found.", err)
		return
	}
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch conversation.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "ok",
		"data":    messages,
	})
}

// ClearThreadHandler wipes one astrologer's conversation and re-seeds the
// greeting. Other threads and the quota are unaffected.
// DELETE /api/chat/:astrologerID
func (h *APIHandler) ClearThreadHandler(c *gin.Context) {
	astrologerID := c.Param("astrologerID")

	err := h.consultation.ClearThread(astrologerID)
	if errors.Is(err, services.ErrUnknownAstrologer) {
		utils.SendJSONError(c, http.StatusNotFound, "Astrologer not found.", err)
		return
	}
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to clear conversation.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Conversation cleared",
	})
}
