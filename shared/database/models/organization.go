package models

import "time"

// Organization owns events and members. Rows are provisioned out of band
// (see cmd/seed); the API never creates or mutates them.
type Organization struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Organization) TableName() string {
	return "organizations"
}
