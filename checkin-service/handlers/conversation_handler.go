package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"rollcall-backend/checkin-service/services"
)

// ConversationHandler handles the template-editor conversation endpoint
type ConversationHandler struct {
	conversation *services.ConversationService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversation *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversation: conversation}
}

// EmailConversation godoc
// @Summary Template editor conversation turn
// @Description Forward a chat turn plus the current HTML template to the model and return its structured revision
// @Tags template-editor
// @Accept json
// @Produce json
// @Param request body services.ConversationRequest true "Conversation turn"
// @Success 200 {object} services.ConversationResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /email-conversation [post]
func (h *ConversationHandler) EmailConversation(c *gin.Context) {
	var req services.ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing required fields",
		})
		return
	}

	if req.Message == "" && len(req.ConversationHistory) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing required fields",
		})
		return
	}

	response, err := h.conversation.Converse(c.Request.Context(), req)
	if err != nil {
		log.Printf("❌ Error in email conversation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to process request",
		})
		return
	}

	c.JSON(http.StatusOK, response)
}
