package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rollcall-backend/shared/database"
	"rollcall-backend/shared/database/models"
	utils "rollcall-backend/shared/utils/auth"
	"rollcall-backend/shared/utils/cache"
)

// eventCodeRetries bounds retries when a generated code collides with the
// unique index.
const eventCodeRetries = 5

// acceptedDateLayouts are the event date formats the create form may send.
var acceptedDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// AttendeeResponse is one attendance row joined with member fields for the
// event roster view
type AttendeeResponse struct {
	AttendanceID uint      `json:"attendance_id"`
	MemberID     uint      `json:"member_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PhoneNumber  string    `json:"phone_number"`
	Status       string    `json:"status"`
	CheckedInAt  time.Time `json:"checked_in_at"`
}

// MemberAttendanceResponse is one attendance row joined with event fields
// for the per-member history view
type MemberAttendanceResponse struct {
	AttendanceID uint      `json:"attendance_id"`
	EventID      uint      `json:"event_id"`
	EventName    string    `json:"event_name"`
	EventDate    time.Time `json:"event_date"`
	Description  string    `json:"description"`
	Code         string    `json:"code"`
	Status       string    `json:"status"`
	CheckedInAt  time.Time `json:"checked_in_at"`
}

// CreateEvent godoc
// @Summary Create an event
// @Description Create an event and assign its public check-in code
// @Tags events
// @Accept x-www-form-urlencoded
// @Produce json
// @Param name formData string true "Event name"
// @Param eventDate formData string true "Event date (ISO datetime)"
// @Param description formData string false "Event description"
// @Param organizationId formData int true "Owning organization ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /events [post]
func CreateEvent(c *gin.Context) {
	name := c.PostForm("name")
	eventDate := c.PostForm("eventDate")
	description := c.PostForm("description")
	organizationID := c.PostForm("organizationId")

	if name == "" || eventDate == "" || organizationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	orgID, err := strconv.ParseUint(organizationID, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization ID"})
		return
	}

	parsedDate, err := parseEventDate(eventDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event date"})
		return
	}

	event := models.Event{
		OrganizationID: uint(orgID),
		Name:           name,
		EventDate:      parsedDate,
		Description:    description,
	}

	if err := createEventWithCode(&event); err != nil {
		log.Printf("❌ Error creating event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateOrgEvents(event.OrganizationID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"event":   event,
	})
}

// createEventWithCode inserts the event, regenerating the code on the rare
// unique-index collision
func createEventWithCode(event *models.Event) error {
	for attempt := 0; attempt < eventCodeRetries; attempt++ {
		code, err := utils.GenerateEventCode()
		if err != nil {
			return err
		}
		event.Code = code

		err = database.DB.Create(event).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return errors.New("could not generate a unique event code")
}

// parseEventDate tries the accepted form layouts in order
func parseEventDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range acceptedDateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// GetOrgEvents godoc
// @Summary List an organization's events
// @Description List events ordered by event date, most recent first
// @Tags events
// @Produce json
// @Param id path int true "Organization ID"
// @Success 200 {object} map[string]interface{}
// @Router /organizations/{id}/events [get]
func GetOrgEvents(c *gin.Context) {
	orgID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization ID"})
		return
	}

	cm := cache.GetCacheManager()
	cacheKey := cache.OrgEventsKey(uint(orgID))

	var events []models.Event
	if cm != nil && cm.GetList(cacheKey, &events) {
		c.JSON(http.StatusOK, gin.H{"success": true, "events": events})
		return
	}

	// Listing views degrade to an empty result on datastore error.
	if err := database.DB.
		Where("organization_id = ?", orgID).
		Order("event_date DESC").
		Find(&events).Error; err != nil {
		log.Printf("❌ Error fetching events for org %d: %v", orgID, err)
		c.JSON(http.StatusOK, gin.H{"success": true, "events": []models.Event{}})
		return
	}

	if events == nil {
		events = []models.Event{}
	}

	if cm != nil {
		cm.SetList(cacheKey, events, cache.EventListTTL)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "events": events})
}

// GetEventByCode godoc
// @Summary Resolve an event by its public code
// @Description Used by the public check-in page to resolve /check-in/{code}
// @Tags events
// @Produce json
// @Param code path string true "Event code"
// @Success 200 {object} models.Event
// @Failure 404 {object} map[string]string
// @Router /events/code/{code} [get]
func GetEventByCode(c *gin.Context) {
	code := c.Param("code")

	var event models.Event
	if err := database.DB.Where("code = ?", code).First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	c.JSON(http.StatusOK, event)
}

// GetEventAttendees godoc
// @Summary List an event's attendees
// @Description Attendance rows joined with member name and phone
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Router /events/{id}/attendees [get]
func GetEventAttendees(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	cm := cache.GetCacheManager()
	cacheKey := cache.EventAttendeesKey(uint(eventID))

	var attendees []AttendeeResponse
	if cm != nil && cm.GetList(cacheKey, &attendees) {
		c.JSON(http.StatusOK, gin.H{"success": true, "attendees": attendees})
		return
	}

	err = database.DB.
		Table("attendance").
		Select(`attendance.id AS attendance_id,
			org_members.id AS member_id,
			org_members.first_name,
			org_members.last_name,
			org_members.phone_number,
			attendance.status,
			attendance.created_at AS checked_in_at`).
		Joins("JOIN org_members ON org_members.id = attendance.member_id").
		Where("attendance.event_id = ?", eventID).
		Order("attendance.created_at ASC").
		Scan(&attendees).Error
	if err != nil {
		log.Printf("❌ Error fetching attendees for event %d: %v", eventID, err)
		c.JSON(http.StatusOK, gin.H{"success": true, "attendees": []AttendeeResponse{}})
		return
	}

	if attendees == nil {
		attendees = []AttendeeResponse{}
	}

	if cm != nil {
		cm.SetList(cacheKey, attendees, cache.AttendeeListTTL)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "attendees": attendees})
}

// GetMemberAttendance godoc
// @Summary A member's attendance history
// @Description Attendance rows joined with event name, date, description and code
// @Tags members
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} map[string]interface{}
// @Router /members/{id}/attendance [get]
func GetMemberAttendance(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	var history []MemberAttendanceResponse
	err = database.DB.
		Table("attendance").
		Select(`attendance.id AS attendance_id,
			events.id AS event_id,
			events.name AS event_name,
			events.event_date,
			events.description,
			events.code,
			attendance.status,
			attendance.created_at AS checked_in_at`).
		Joins("JOIN events ON events.id = attendance.event_id").
		Where("attendance.member_id = ?", memberID).
		Order("events.event_date DESC").
		Scan(&history).Error
	if err != nil {
		log.Printf("❌ Error fetching attendance for member %d: %v", memberID, err)
		c.JSON(http.StatusOK, gin.H{"success": true, "attendance": []MemberAttendanceResponse{}})
		return
	}

	if history == nil {
		history = []MemberAttendanceResponse{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "attendance": history})
}
