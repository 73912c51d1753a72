package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

type AvailabilityGormRepository struct {
	db *gorm.DB
}

func NewAvailabilityGormRepository(db *gorm.DB) *AvailabilityGormRepository {
	return &AvailabilityGormRepository{db: db}
}

// --------------------------------------------------
// Weekly slots
// --------------------------------------------------

func (r *AvailabilityGormRepository) ListSlots(
	ctx context.Context,
	vetID uint,
) ([]models.AvailabilitySlot, error) {

	var slots []models.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Where("vet_id = ?", vetID).
		Order("weekday ASC, start_time ASC").
		Find(&slots).Error

	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *AvailabilityGormRepository) ListSlotsForDay(
	ctx context.Context,
	vetID uint,
	weekday int,
) ([]models.AvailabilitySlot, error) {

	var slots []models.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Where("vet_id = ? AND weekday = ?", vetID, weekday).
		Order("start_time ASC").
		Find(&slots).Error

	if err != nil {
		return nil, err
	}
	return slots, nil
}

// ReplaceSlots swaps the vet's whole weekly pattern in one transaction.
func (r *AvailabilityGormRepository) ReplaceSlots(
	ctx context.Context,
	vetID uint,
	slots []models.AvailabilitySlot,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("vet_id = ?", vetID).
			Delete(&models.AvailabilitySlot{}).Error; err != nil {
			return err
		}

		if len(slots) == 0 {
			return nil
		}

		for i := range slots {
			slots[i].VetID = vetID
		}
		return tx.Create(&slots).Error
	})

	if err != nil {
		return fmt.Errorf("failed to update availability slots: %w", err)
	}
	return nil
}

// --------------------------------------------------
// Holidays
// --------------------------------------------------

func (r *AvailabilityGormRepository) ListHolidays(
	ctx context.Context,
	vetID uint,
) ([]models.Holiday, error) {

	var holidays []models.Holiday
	err := r.db.WithContext(ctx).
		Where("vet_id = ?", vetID).
		Order("start_date ASC").
		Find(&holidays).Error

	if err != nil {
		return nil, err
	}
	return holidays, nil
}

func (r *AvailabilityGormRepository) CountHolidaysOn(
	ctx context.Context,
	vetID uint,
	date time.Time,
) (int64, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Holiday{}).
		Where(
			"vet_id = ? AND start_date <= ? AND end_date >= ?",
			vetID, date, date,
		).
		Count(&count).Error

	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AvailabilityGormRepository) CreateHoliday(
	ctx context.Context,
	h *models.Holiday,
) error {
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		return fmt.Errorf("failed to create holiday: %w", err)
	}
	return nil
}

func (r *AvailabilityGormRepository) DeleteHoliday(
	ctx context.Context,
	vetID uint,
	holidayID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Where("id = ? AND vet_id = ?", holidayID, vetID).
		Delete(&models.Holiday{})

	if res.Error != nil {
		return false, fmt.Errorf("failed to delete holiday: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
