package models

import "time"

// Member is created lazily on first check-in. PhoneNumber is stored in
// normalized form only; the composite unique index makes concurrent
// first check-ins for the same phone converge on a single row.
type Member struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrganizationID uint      `json:"organization_id" gorm:"not null;uniqueIndex:idx_org_phone"`
	FirstName      string    `json:"first_name" gorm:"size:100;not null"`
	LastName       string    `json:"last_name" gorm:"size:100;not null"`
	Email          string    `json:"email" gorm:"size:255"`
	PhoneNumber    string    `json:"phone_number" gorm:"size:20;not null;uniqueIndex:idx_org_phone"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Member) TableName() string {
	return "org_members"
}
