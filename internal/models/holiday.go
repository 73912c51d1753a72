package models

import "time"

// Date range (inclusive on both ends) during which a vet is away,
// overriding the weekly availability pattern.
type Holiday struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	VetID uint `json:"vet_id"`

	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`
	Reason    string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
