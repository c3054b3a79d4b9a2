package models

import "time"

// AttendanceStatusAttended is the only status written today.
const AttendanceStatusAttended = "attended"

// Attendance joins events and members. The composite unique index enforces
// at-most-one row per (event, member); a duplicate-key insert is the
// "already checked in" signal, not an error.
type Attendance struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"event_id" gorm:"not null;uniqueIndex:idx_event_member"`
	MemberID  uint      `json:"member_id" gorm:"not null;uniqueIndex:idx_event_member"`
	Status    string    `json:"status" gorm:"size:20;not null;default:'attended'"`
	CreatedAt time.Time `json:"created_at"`
}

func (Attendance) TableName() string {
	return "attendance"
}
