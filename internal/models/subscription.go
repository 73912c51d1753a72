package models

import "time"

// Active plan assignment for a clinic.
type Subscription struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClinicID uint `gorm:"index" json:"clinic_id"`

	PlanID uint             `json:"plan_id"`
	Plan   SubscriptionPlan `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"plan"`

	Status    string     `gorm:"size:20;default:'active'" json:"status"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
