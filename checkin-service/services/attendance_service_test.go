package services

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"rollcall-backend/shared/database/models"
)

// mockStore implements AttendanceStore in memory for workflow tests.
type mockStore struct {
	events     map[string]*models.Event
	members    map[string]*models.Member
	attendance map[string]bool

	nextMemberID        uint
	memberCreates       int
	memberLookupMisses  int
	attendanceCreates   int
	createMemberErr     error
	createAttendanceErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		events:       make(map[string]*models.Event),
		members:      make(map[string]*models.Member),
		attendance:   make(map[string]bool),
		nextMemberID: 1,
	}
}

func (m *mockStore) addEvent(code string, orgID uint) *models.Event {
	event := &models.Event{ID: uint(len(m.events) + 1), OrganizationID: orgID, Code: code, Name: "Test Event"}
	m.events[code] = event
	return event
}

func (m *mockStore) addMember(orgID uint, phoneNumber, first, last string) *models.Member {
	member := &models.Member{
		ID:             m.nextMemberID,
		OrganizationID: orgID,
		FirstName:      first,
		LastName:       last,
		PhoneNumber:    phoneNumber,
	}
	m.nextMemberID++
	m.members[memberKey(orgID, phoneNumber)] = member
	return member
}

func memberKey(orgID uint, phoneNumber string) string {
	return fmt.Sprintf("%d|%s", orgID, phoneNumber)
}

func attendanceKey(eventID, memberID uint) string {
	return fmt.Sprintf("%d|%d", eventID, memberID)
}

func (m *mockStore) EventByCode(code string) (*models.Event, error) {
	event, ok := m.events[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return event, nil
}

func (m *mockStore) MemberByPhone(orgID uint, phoneNumber string) (*models.Member, error) {
	if m.memberLookupMisses > 0 {
		m.memberLookupMisses--
		return nil, gorm.ErrRecordNotFound
	}
	member, ok := m.members[memberKey(orgID, phoneNumber)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return member, nil
}

func (m *mockStore) CreateMember(member *models.Member) error {
	if m.createMemberErr != nil {
		return m.createMemberErr
	}
	key := memberKey(member.OrganizationID, member.PhoneNumber)
	if _, exists := m.members[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	member.ID = m.nextMemberID
	m.nextMemberID++
	m.members[key] = member
	m.memberCreates++
	return nil
}

func (m *mockStore) HasAttendance(eventID, memberID uint) (bool, error) {
	return m.attendance[attendanceKey(eventID, memberID)], nil
}

func (m *mockStore) CreateAttendance(attendance *models.Attendance) error {
	if m.createAttendanceErr != nil {
		return m.createAttendanceErr
	}
	key := attendanceKey(attendance.EventID, attendance.MemberID)
	if m.attendance[key] {
		return gorm.ErrDuplicatedKey
	}
	m.attendance[key] = true
	m.attendanceCreates++
	return nil
}

func TestSubmitCheckInMissingFields(t *testing.T) {
	service := NewAttendanceService(newMockStore())

	cases := []struct {
		name string
		req  CheckInRequest
	}{
		{"no event code", CheckInRequest{PhoneNumber: "5551234567"}},
		{"no phone", CheckInRequest{EventCode: "ABC123"}},
		{"blank fields", CheckInRequest{EventCode: "  ", PhoneNumber: " "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.SubmitCheckIn(tc.req)
			if !errors.Is(err, ErrMissingFields) {
				t.Fatalf("expected ErrMissingFields, got %v", err)
			}
		})
	}
}

func TestSubmitCheckInInvalidEventCode(t *testing.T) {
	service := NewAttendanceService(newMockStore())

	_, err := service.SubmitCheckIn(CheckInRequest{EventCode: "NOPE99", PhoneNumber: "5551234567"})
	if !errors.Is(err, ErrInvalidEventCode) {
		t.Fatalf("expected ErrInvalidEventCode, got %v", err)
	}
}

func TestSubmitCheckInDetailsRequired(t *testing.T) {
	store := newMockStore()
	store.addEvent("ABC123", 1)
	service := NewAttendanceService(store)

	result, err := service.SubmitCheckIn(CheckInRequest{EventCode: "ABC123", PhoneNumber: "5551234567"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusDetailsRequired {
		t.Fatalf("expected StatusDetailsRequired, got %s", result.Status)
	}
	if store.memberCreates != 0 {
		t.Fatalf("expected no member rows, got %d", store.memberCreates)
	}
	if store.attendanceCreates != 0 {
		t.Fatalf("expected no attendance rows, got %d", store.attendanceCreates)
	}
}

func TestSubmitCheckInRegistersNewMember(t *testing.T) {
	store := newMockStore()
	store.addEvent("ABC123", 1)
	service := NewAttendanceService(store)

	result, err := service.SubmitCheckIn(CheckInRequest{
		EventCode:   "ABC123",
		PhoneNumber: "(555) 123-4567",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusCheckedIn {
		t.Fatalf("expected StatusCheckedIn, got %s", result.Status)
	}
	if result.MemberName != "Ada Lovelace" {
		t.Fatalf("expected member name Ada Lovelace, got %q", result.MemberName)
	}
	if !result.NewMember {
		t.Fatal("expected NewMember to be true")
	}
	if store.memberCreates != 1 {
		t.Fatalf("expected exactly one member row, got %d", store.memberCreates)
	}
	if store.attendanceCreates != 1 {
		t.Fatalf("expected exactly one attendance row, got %d", store.attendanceCreates)
	}

	// The member must be stored under the normalized phone number.
	if _, err := store.MemberByPhone(1, "+15551234567"); err != nil {
		t.Fatalf("member not found under normalized phone: %v", err)
	}
}

func TestSubmitCheckInIdempotent(t *testing.T) {
	store := newMockStore()
	store.addEvent("ABC123", 1)
	store.addMember(1, "+15551234567", "Ada", "Lovelace")
	service := NewAttendanceService(store)

	first, err := service.SubmitCheckIn(CheckInRequest{EventCode: "ABC123", PhoneNumber: "5551234567"})
	if err != nil {
		t.Fatalf("unexpected error on first check-in: %v", err)
	}
	if first.Status != StatusCheckedIn {
		t.Fatalf("expected StatusCheckedIn, got %s", first.Status)
	}

	second, err := service.SubmitCheckIn(CheckInRequest{EventCode: "ABC123", PhoneNumber: "5551234567"})
	if err != nil {
		t.Fatalf("unexpected error on second check-in: %v", err)
	}
	if second.Status != StatusAlreadyCheckedIn {
		t.Fatalf("expected StatusAlreadyCheckedIn, got %s", second.Status)
	}
	if second.MemberName != "Ada Lovelace" {
		t.Fatalf("expected member name on repeat check-in, got %q", second.MemberName)
	}
	if store.attendanceCreates != 1 {
		t.Fatalf("expected exactly one attendance row, got %d", store.attendanceCreates)
	}
}

func TestSubmitCheckInFormattingVariantsResolveSameMember(t *testing.T) {
	store := newMockStore()
	store.addEvent("ABC123", 1)
	store.addMember(1, "+15551234567", "Grace", "Hopper")
	service := NewAttendanceService(store)

	for _, raw := range []string{"(555) 123-4567", "555-123-4567", "+1 555 123 4567"} {
		result, err := service.SubmitCheckIn(CheckInRequest{EventCode: "ABC123", PhoneNumber: raw})
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if result.MemberName != "Grace Hopper" {
			t.Fatalf("phone %q did not resolve existing member, got %q", raw, result.MemberName)
		}
	}

	if store.memberCreates != 0 {
		t.Fatalf("formatting variants created %d member rows", store.memberCreates)
	}
}

func TestSubmitCheckInConvergesOnConcurrentRegistration(t *testing.T) {
	store := newMockStore()
	store.addEvent("ABC123", 1)
	service := NewAttendanceService(store)

	// Simulate losing the insert race: the first lookup misses but the
	// insert hits the unique index because someone else registered first.
	racedMember := store.addMember(1, "+15551234567", "Ada", "Lovelace")
	store.memberLookupMisses = 1
	store.createMemberErr = gorm.ErrDuplicatedKey

	result, err := service.SubmitCheckIn(CheckInRequest{
		EventCode:   "ABC123",
		PhoneNumber: "5551234567",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusCheckedIn {
		t.Fatalf("expected StatusCheckedIn, got %s", result.Status)
	}
	if result.NewMember {
		t.Fatal("converged check-in must not report a new member")
	}
	if !store.attendance[attendanceKey(1, racedMember.ID)] {
		t.Fatal("attendance not recorded against the winning member row")
	}
}

func TestSubmitCheckInDuplicateAttendanceInsertIsAlreadyCheckedIn(t *testing.T) {
	store := newMockStore()
	store.addEvent("ABC123", 1)
	store.addMember(1, "+15551234567", "Ada", "Lovelace")
	store.createAttendanceErr = gorm.ErrDuplicatedKey
	service := NewAttendanceService(store)

	result, err := service.SubmitCheckIn(CheckInRequest{EventCode: "ABC123", PhoneNumber: "5551234567"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusAlreadyCheckedIn {
		t.Fatalf("expected StatusAlreadyCheckedIn, got %s", result.Status)
	}
}

func TestSubmitCheckInRegistrationFailure(t *testing.T) {
	store := newMockStore()
	store.addEvent("ABC123", 1)
	store.createMemberErr = errors.New("connection reset")
	service := NewAttendanceService(store)

	_, err := service.SubmitCheckIn(CheckInRequest{
		EventCode:   "ABC123",
		PhoneNumber: "5551234567",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
	})
	if !errors.Is(err, ErrRegistrationFailed) {
		t.Fatalf("expected ErrRegistrationFailed, got %v", err)
	}
	if store.attendanceCreates != 0 {
		t.Fatalf("failed registration must not record attendance, got %d rows", store.attendanceCreates)
	}
}
