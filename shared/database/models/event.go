package models

import "time"

// Event is immutable after creation. Code is the public check-in token
// embedded in /check-in/{code} URLs and QR codes.
type Event struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrganizationID uint      `json:"organization_id" gorm:"index;not null"`
	Code           string    `json:"code" gorm:"size:12;uniqueIndex;not null"`
	Name           string    `json:"name" gorm:"size:200;not null"`
	EventDate      time.Time `json:"event_date" gorm:"not null"`
	Description    string    `json:"description" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Event) TableName() string {
	return "events"
}
