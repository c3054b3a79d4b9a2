package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rollcall-backend/checkin-service/services"
	"rollcall-backend/shared/database/models"
)

// stubAttendanceStore serves a single event and member for handler tests.
type stubAttendanceStore struct {
	event     *models.Event
	member    *models.Member
	checkedIn bool
}

func (s *stubAttendanceStore) EventByCode(code string) (*models.Event, error) {
	if s.event != nil && s.event.Code == code {
		return s.event, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAttendanceStore) MemberByPhone(orgID uint, phoneNumber string) (*models.Member, error) {
	if s.member != nil && s.member.OrganizationID == orgID && s.member.PhoneNumber == phoneNumber {
		return s.member, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAttendanceStore) CreateMember(member *models.Member) error { return nil }

func (s *stubAttendanceStore) HasAttendance(eventID, memberID uint) (bool, error) {
	return s.checkedIn, nil
}

func (s *stubAttendanceStore) CreateAttendance(attendance *models.Attendance) error {
	s.checkedIn = true
	return nil
}

// recordingNotifier captures notifications instead of touching redis or
// the websocket manager.
type recordingNotifier struct {
	orgInvalidations   []uint
	eventInvalidations []uint
	broadcasts         []*services.CheckInMessage
}

func (n *recordingNotifier) InvalidateOrgEvents(orgID uint) {
	n.orgInvalidations = append(n.orgInvalidations, orgID)
}

func (n *recordingNotifier) InvalidateEventAttendees(eventID uint) {
	n.eventInvalidations = append(n.eventInvalidations, eventID)
}

func (n *recordingNotifier) BroadcastCheckIn(message *services.CheckInMessage) {
	n.broadcasts = append(n.broadcasts, message)
}

func checkInRouter(store services.AttendanceStore, notifier CheckInNotifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAttendanceHandler(services.NewAttendanceService(store), notifier)
	router := gin.New()
	router.POST("/api/check-in", handler.SubmitCheckIn)
	return router
}

func postCheckIn(router *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/check-in", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitCheckInInvalidatesBothListings(t *testing.T) {
	store := &stubAttendanceStore{
		event:  &models.Event{ID: 7, OrganizationID: 3, Code: "ABC123", Name: "Kickoff Meeting"},
		member: &models.Member{ID: 5, OrganizationID: 3, FirstName: "Ada", LastName: "Lovelace", PhoneNumber: "+15551234567"},
	}
	notifier := &recordingNotifier{}
	router := checkInRouter(store, notifier)

	w := postCheckIn(router, url.Values{
		"eventCode":   {"ABC123"},
		"phoneNumber": {"5551234567"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(notifier.orgInvalidations) != 1 || notifier.orgInvalidations[0] != 3 {
		t.Fatalf("expected org event list 3 invalidated, got %v", notifier.orgInvalidations)
	}
	if len(notifier.eventInvalidations) != 1 || notifier.eventInvalidations[0] != 7 {
		t.Fatalf("expected attendee list 7 invalidated, got %v", notifier.eventInvalidations)
	}
	if len(notifier.broadcasts) != 1 {
		t.Fatalf("expected one live feed frame, got %d", len(notifier.broadcasts))
	}
	frame := notifier.broadcasts[0]
	if frame.EventID != 7 || frame.MemberName != "Ada Lovelace" {
		t.Fatalf("unexpected frame: %+v", frame)
	}
}

func TestSubmitCheckInAlreadyCheckedInDoesNotNotify(t *testing.T) {
	store := &stubAttendanceStore{
		event:     &models.Event{ID: 7, OrganizationID: 3, Code: "ABC123", Name: "Kickoff Meeting"},
		member:    &models.Member{ID: 5, OrganizationID: 3, FirstName: "Ada", LastName: "Lovelace", PhoneNumber: "+15551234567"},
		checkedIn: true,
	}
	notifier := &recordingNotifier{}
	router := checkInRouter(store, notifier)

	w := postCheckIn(router, url.Values{
		"eventCode":   {"ABC123"},
		"phoneNumber": {"5551234567"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(notifier.orgInvalidations) != 0 || len(notifier.eventInvalidations) != 0 {
		t.Fatalf("repeat check-in must not invalidate listings, got %v / %v",
			notifier.orgInvalidations, notifier.eventInvalidations)
	}
	if len(notifier.broadcasts) != 0 {
		t.Fatalf("repeat check-in must not hit the live feed, got %d frames", len(notifier.broadcasts))
	}
}
