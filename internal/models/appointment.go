package models

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"uuid"`

	ClinicID uint   `json:"clinic_id"`
	Clinic   Clinic `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"clinic"`

	VetID uint `json:"vet_id"`
	Vet   User `gorm:"foreignKey:VetID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"vet"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	PetID *uint `json:"pet_id"`
	Pet   *Pet  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"pet"`

	Type   string `gorm:"size:50" json:"type"`
	Reason string `gorm:"size:255" json:"reason"`
	Notes  string `gorm:"size:255" json:"notes"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	IsRemote   bool   `gorm:"default:false" json:"is_remote"`
	MeetingURL string `gorm:"size:255" json:"meeting_url"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
