package models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionPlan struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"uuid"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`

	NameI18n        map[string]string `gorm:"serializer:json" json:"name_i18n"`
	DescriptionI18n map[string]string `gorm:"serializer:json" json:"description_i18n"`

	Price       float64  `json:"price"`
	YearlyPrice *float64 `json:"yearly_price"`

	// nil limit means unlimited.
	UserLimit        *int `json:"user_limit"`
	PetLimit         *int `json:"pet_limit"`
	AppointmentLimit *int `json:"appointment_limit"`

	IsActive  bool `gorm:"default:true" json:"is_active"`
	IsPopular bool `gorm:"default:false" json:"is_popular"`
	SortOrder int  `gorm:"default:0" json:"sort_order"`

	Features []PlanFeature `gorm:"many2many:subscription_plan_features;" json:"features"`

	StripeProductID string `gorm:"size:100" json:"stripe_product_id,omitempty"`
	StripePriceID   string `gorm:"size:100" json:"stripe_price_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *SubscriptionPlan) HasFeature(slug string) bool {
	for _, f := range p.Features {
		if f.Slug == slug {
			return true
		}
	}
	return false
}

type PlanFeature struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Slug string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Name string `gorm:"size:100" json:"name"`

	CreatedAt time.Time `json:"created_at"`
}
