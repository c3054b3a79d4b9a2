package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"rollcall-backend/shared/database/models"
	"rollcall-backend/shared/utils/phone"
)

// AttendanceStore is the datastore surface the check-in workflow needs.
// The production implementation is GormStore; tests substitute mocks.
type AttendanceStore interface {
	EventByCode(code string) (*models.Event, error)
	MemberByPhone(orgID uint, phoneNumber string) (*models.Member, error)
	CreateMember(member *models.Member) error
	HasAttendance(eventID, memberID uint) (bool, error)
	CreateAttendance(attendance *models.Attendance) error
}

// Check-in failure modes surfaced to callers. Handlers map these to user
// messages; internal detail stays in the server log.
var (
	ErrMissingFields      = errors.New("event code and phone number are required")
	ErrInvalidEventCode   = errors.New("invalid event code")
	ErrRegistrationFailed = errors.New("failed to register member")
	ErrAttendanceFailed   = errors.New("failed to record attendance")
)

// CheckInStatus distinguishes the three non-error outcomes of a check-in.
type CheckInStatus string

const (
	StatusCheckedIn        CheckInStatus = "CHECKED_IN"
	StatusAlreadyCheckedIn CheckInStatus = "ALREADY_CHECKED_IN"
	StatusDetailsRequired  CheckInStatus = "DETAILS_REQUIRED"
)

// CheckInRequest carries the public check-in form fields. FirstName,
// LastName and Email are only consulted when the phone number is unknown.
type CheckInRequest struct {
	EventCode   string
	PhoneNumber string
	FirstName   string
	LastName    string
	Email       string
}

// CheckInResult is the workflow outcome for the caller-facing response.
type CheckInResult struct {
	Status     CheckInStatus
	Message    string
	MemberName string
	Event      *models.Event
	NewMember  bool
}

// AttendanceService runs the check-in workflow against a store.
type AttendanceService struct {
	store AttendanceStore
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(store AttendanceStore) *AttendanceService {
	return &AttendanceService{store: store}
}

// SubmitCheckIn resolves the event, resolves or registers the member, and
// records at most one attendance row per (event, member).
//
// The unknown-phone path is a deliberate two-phase flow: without
// registration details the caller gets StatusDetailsRequired, prompts the
// attendee, and retries with the same phone number plus details.
func (s *AttendanceService) SubmitCheckIn(req CheckInRequest) (*CheckInResult, error) {
	if strings.TrimSpace(req.EventCode) == "" || strings.TrimSpace(req.PhoneNumber) == "" {
		return nil, ErrMissingFields
	}

	event, err := s.store.EventByCode(req.EventCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidEventCode
		}
		log.Printf("❌ Error resolving event %q: %v", req.EventCode, err)
		return nil, ErrInvalidEventCode
	}

	formattedPhone := phone.Normalize(req.PhoneNumber)

	member, registered, err := s.resolveMember(event, formattedPhone, req)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return &CheckInResult{
			Status:  StatusDetailsRequired,
			Message: "Member not found. Please provide details.",
			Event:   event,
		}, nil
	}

	memberName := fmt.Sprintf("%s %s", member.FirstName, member.LastName)

	alreadyCheckedIn, err := s.recordAttendance(event.ID, member.ID)
	if err != nil {
		return nil, err
	}

	if alreadyCheckedIn {
		return &CheckInResult{
			Status:     StatusAlreadyCheckedIn,
			Message:    "You have already checked in!",
			MemberName: memberName,
			Event:      event,
		}, nil
	}

	return &CheckInResult{
		Status:     StatusCheckedIn,
		Message:    "You are checked in!",
		MemberName: memberName,
		Event:      event,
		NewMember:  registered,
	}, nil
}

// resolveMember returns the existing member for the normalized phone, or
// registers a new one when details are present. A nil member with nil error
// means registration details are required; the bool reports whether a new
// row was created.
func (s *AttendanceService) resolveMember(event *models.Event, formattedPhone string, req CheckInRequest) (*models.Member, bool, error) {
	member, err := s.store.MemberByPhone(event.OrganizationID, formattedPhone)
	if err == nil {
		return member, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("❌ Error looking up member by phone: %v", err)
		return nil, false, ErrRegistrationFailed
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		return nil, false, nil
	}

	newMember := &models.Member{
		OrganizationID: event.OrganizationID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    formattedPhone,
	}

	if err := s.store.CreateMember(newMember); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent check-in registered the same phone first;
			// converge on that row instead of failing.
			existing, lookupErr := s.store.MemberByPhone(event.OrganizationID, formattedPhone)
			if lookupErr == nil {
				return existing, false, nil
			}
		}
		log.Printf("❌ Error creating member: %v", err)
		return nil, false, ErrRegistrationFailed
	}

	return newMember, true, nil
}

// recordAttendance inserts the attendance row unless one already exists.
// Reports true when the member had already checked in.
func (s *AttendanceService) recordAttendance(eventID, memberID uint) (bool, error) {
	exists, err := s.store.HasAttendance(eventID, memberID)
	if err != nil {
		log.Printf("❌ Error checking attendance: %v", err)
		return false, ErrAttendanceFailed
	}
	if exists {
		return true, nil
	}

	attendance := &models.Attendance{
		EventID:  eventID,
		MemberID: memberID,
		Status:   models.AttendanceStatusAttended,
	}

	if err := s.store.CreateAttendance(attendance); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with an identical check-in; same outcome.
			return true, nil
		}
		log.Printf("❌ Error recording attendance: %v", err)
		return false, ErrAttendanceFailed
	}

	return false, nil
}
