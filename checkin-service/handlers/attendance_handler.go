package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rollcall-backend/checkin-service/services"
	"rollcall-backend/shared/utils/cache"
)

// CheckInNotifier receives each successful check-in so the cached listing
// views can be invalidated and live roster viewers updated.
type CheckInNotifier interface {
	InvalidateOrgEvents(orgID uint)
	InvalidateEventAttendees(eventID uint)
	BroadcastCheckIn(message *services.CheckInMessage)
}

// LiveNotifier is the production CheckInNotifier over the cache manager
// and websocket manager singletons.
type LiveNotifier struct{}

func (LiveNotifier) InvalidateOrgEvents(orgID uint) {
	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateOrgEvents(orgID)
	}
}

func (LiveNotifier) InvalidateEventAttendees(eventID uint) {
	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateEventAttendees(eventID)
	}
}

func (LiveNotifier) BroadcastCheckIn(message *services.CheckInMessage) {
	services.GetWebSocketManager().BroadcastCheckIn(message)
}

// AttendanceHandler handles the public check-in endpoint
type AttendanceHandler struct {
	service  *services.AttendanceService
	notifier CheckInNotifier
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(service *services.AttendanceService, notifier CheckInNotifier) *AttendanceHandler {
	return &AttendanceHandler{service: service, notifier: notifier}
}

// SubmitCheckIn godoc
// @Summary Check in to an event
// @Description Resolve the event by code, resolve or register the member by phone, and record attendance once
// @Tags check-in
// @Accept x-www-form-urlencoded
// @Produce json
// @Param eventCode formData string true "Public event code"
// @Param phoneNumber formData string true "Attendee phone number"
// @Param firstName formData string false "First name (registration only)"
// @Param lastName formData string false "Last name (registration only)"
// @Param email formData string false "Email (registration only)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /check-in [post]
func (h *AttendanceHandler) SubmitCheckIn(c *gin.Context) {
	req := services.CheckInRequest{
		EventCode:   c.PostForm("eventCode"),
		PhoneNumber: c.PostForm("phoneNumber"),
		FirstName:   c.PostForm("firstName"),
		LastName:    c.PostForm("lastName"),
		Email:       c.PostForm("email"),
	}

	result, err := h.service.SubmitCheckIn(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Event code and phone number are required",
			})
		case errors.Is(err, services.ErrInvalidEventCode):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Invalid event code",
			})
		case errors.Is(err, services.ErrRegistrationFailed):
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to register member",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to record attendance",
			})
		}
		return
	}

	if result.Status == services.StatusDetailsRequired {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"status":  string(services.StatusDetailsRequired),
			"message": result.Message,
		})
		return
	}

	if result.Status == services.StatusCheckedIn {
		h.notifyCheckIn(result)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    result.Message,
		"memberName": result.MemberName,
	})
}

// notifyCheckIn invalidates the cached listing views and pushes the
// check-in to live roster viewers
func (h *AttendanceHandler) notifyCheckIn(result *services.CheckInResult) {
	h.notifier.InvalidateOrgEvents(result.Event.OrganizationID)
	h.notifier.InvalidateEventAttendees(result.Event.ID)

	h.notifier.BroadcastCheckIn(&services.CheckInMessage{
		Type:        "check_in",
		EventID:     result.Event.ID,
		EventCode:   result.Event.Code,
		MemberName:  result.MemberName,
		NewMember:   result.NewMember,
		CheckedInAt: time.Now().UTC(),
	})
}
