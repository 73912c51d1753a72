package models

import "time"

type Pet struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `json:"clinic_id"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	Name      string     `gorm:"size:100;not null" json:"name"`
	Species   string     `gorm:"size:50" json:"species"`
	Breed     string     `gorm:"size:100" json:"breed"`
	BirthDate *time.Time `json:"birth_date"`
	Weight    float64    `json:"weight"`
	Notes     string     `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
