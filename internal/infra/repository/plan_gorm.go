package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

type PlanGormRepository struct {
	db *gorm.DB
}

func NewPlanGormRepository(db *gorm.DB) *PlanGormRepository {
	return &PlanGormRepository{db: db}
}

func (r *PlanGormRepository) ListPlans(
	ctx context.Context,
	onlyActive bool,
) ([]models.SubscriptionPlan, error) {

	q := r.db.WithContext(ctx).Preload("Features")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}

	var plans []models.SubscriptionPlan
	if err := q.Order("sort_order ASC, id ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *PlanGormRepository) GetPlan(
	ctx context.Context,
	id uint,
) (*models.SubscriptionPlan, error) {

	var plan models.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Preload("Features").
		First(&plan, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *PlanGormRepository) CreatePlan(
	ctx context.Context,
	plan *models.SubscriptionPlan,
) error {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return fmt.Errorf("failed to create subscription plan: %w", err)
	}
	return nil
}

func (r *PlanGormRepository) UpdatePlan(
	ctx context.Context,
	plan *models.SubscriptionPlan,
) error {
	if err := r.db.WithContext(ctx).Save(plan).Error; err != nil {
		return fmt.Errorf("failed to update subscription plan: %w", err)
	}
	return nil
}

func (r *PlanGormRepository) DeletePlan(
	ctx context.Context,
	id uint,
) (bool, error) {

	res := r.db.WithContext(ctx).Delete(&models.SubscriptionPlan{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete subscription plan: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CountActivePlans counts plans with is_active = true, optionally
// excluding one plan (used when re-activating an existing plan).
func (r *PlanGormRepository) CountActivePlans(
	ctx context.Context,
	excludeID *uint,
) (int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.SubscriptionPlan{}).
		Where("is_active = ?", true)

	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
