package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rollcall-backend/checkin-service/services"
	"rollcall-backend/shared/database"
	"rollcall-backend/shared/database/models"
)

// EventFeed godoc
// @Summary Live check-in feed for an event
// @Description Upgrades to a websocket that receives a frame for every successful check-in to the event
// @Tags events
// @Param id path int true "Event ID"
// @Router /ws/events/{id} [get]
func EventFeed(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var event models.Event
	if err := database.DB.First(&event, uint(eventID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	services.GetWebSocketManager().HandleWebSocketConnection(c, event.ID)
}
