package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/MedVetSolutions/vet-scheduler/internal/gate"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

// GormSubscriptionResolver resolves the plan in force for the user's
// clinic via the subscriptions table.
type GormSubscriptionResolver struct {
	db *gorm.DB
}

func NewGormSubscriptionResolver(db *gorm.DB) *GormSubscriptionResolver {
	return &GormSubscriptionResolver{db: db}
}

func (r *GormSubscriptionResolver) Resolve(
	ctx context.Context,
	user *models.User,
) (*models.SubscriptionPlan, error) {

	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Preload("Plan.Features").
		Where(
			"clinic_id = ? AND status = 'active' AND (end_date IS NULL OR end_date > ?)",
			user.ClinicID, time.Now(),
		).
		Order("start_date DESC").
		First(&sub).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub.Plan, nil
}

// GormUsageCounter computes per-clinic usage for quota checks.
type GormUsageCounter struct {
	db *gorm.DB
}

func NewGormUsageCounter(db *gorm.DB) *GormUsageCounter {
	return &GormUsageCounter{db: db}
}

func (r *GormUsageCounter) CountUsers(
	ctx context.Context,
	clinicID uint,
) (int64, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("clinic_id = ?", clinicID).
		Count(&count).Error
	return count, err
}

func (r *GormUsageCounter) CountPets(
	ctx context.Context,
	clinicID uint,
) (int64, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Where("clinic_id = ?", clinicID).
		Count(&count).Error
	return count, err
}

// CountAppointmentsInMonth counts the clinic's appointments in the
// calendar month containing ref.
func (r *GormUsageCounter) CountAppointmentsInMonth(
	ctx context.Context,
	clinicID uint,
	ref time.Time,
) (int64, error) {

	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"clinic_id = ? AND start_time >= ? AND start_time < ?",
			clinicID, monthStart, monthEnd,
		).
		Count(&count).Error
	return count, err
}

// Compile-time checks
var (
	_ gate.SubscriptionResolver = (*GormSubscriptionResolver)(nil)
	_ gate.UsageCounter         = (*GormUsageCounter)(nil)
)
