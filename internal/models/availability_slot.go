package models

import "time"

// Recurring weekly window during which a vet takes appointments.
// A vet may have several slots on the same weekday (split shifts).
type AvailabilitySlot struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	VetID uint `json:"vet_id"`

	Weekday int `json:"weekday"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
