package services

import (
	"errors"

	"gorm.io/gorm"

	"rollcall-backend/shared/database/models"
)

// GormStore is the production AttendanceStore backed by the shared
// database connection.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store over the given connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// EventByCode looks up an event by its public code
func (s *GormStore) EventByCode(code string) (*models.Event, error) {
	var event models.Event
	if err := s.db.Where("code = ?", code).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// MemberByPhone looks up a member by organization and normalized phone
func (s *GormStore) MemberByPhone(orgID uint, phoneNumber string) (*models.Member, error) {
	var member models.Member
	err := s.db.Where("organization_id = ? AND phone_number = ?", orgID, phoneNumber).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// CreateMember inserts a new member row
func (s *GormStore) CreateMember(member *models.Member) error {
	return s.db.Create(member).Error
}

// HasAttendance reports whether an attendance row exists for the pair
func (s *GormStore) HasAttendance(eventID, memberID uint) (bool, error) {
	var attendance models.Attendance
	err := s.db.Where("event_id = ? AND member_id = ?", eventID, memberID).First(&attendance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateAttendance inserts a new attendance row
func (s *GormStore) CreateAttendance(attendance *models.Attendance) error {
	return s.db.Create(attendance).Error
}
