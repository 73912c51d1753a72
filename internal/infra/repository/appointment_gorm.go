package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/MedVetSolutions/vet-scheduler/internal/domain/appointment"
	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Clinic
// --------------------------------------------------

func (r *AppointmentGormRepository) GetClinicByID(
	ctx context.Context,
	id uint,
) (*models.Clinic, error) {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).First(&clinic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &clinic, nil
}

// --------------------------------------------------
// Appointment (lookup)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	clinicID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Pet").
		Where("id = ? AND clinic_id = ?", appointmentID, clinicID).
		First(&ap).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentByUUID(
	ctx context.Context,
	clinicID uint,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Pet").
		Where("uuid = ? AND clinic_id = ?", id, clinicID).
		First(&ap).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ap, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

// IsVetAvailable scans the vet's non-cancelled appointments for a window
// overlapping [start,end). Touching endpoints never count as overlap.
// An unknown vet id finds nothing and is therefore vacuously available.
func (r *AppointmentGormRepository) IsVetAvailable(
	ctx context.Context,
	vetID uint,
	start time.Time,
	end time.Time,
	excludeID *uint,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"vet_id = ? AND status <> 'cancelled' AND start_time < ? AND end_time > ?",
			vetID,
			end,
			start,
		)

	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}

	return count == 0, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if err := r.db.WithContext(ctx).Create(ap).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// CreateAppointmentGuarded repeats the conflict scan under a row lock in the
// same transaction as the insert, closing the check-then-act window between
// two concurrent bookings for the same vet.
func (r *AppointmentGormRepository) CreateAppointmentGuarded(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		scan := tx.Model(&models.Appointment{})
		if tx.Dialector.Name() == "postgres" {
			scan = scan.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var count int64
		if err := scan.
			Where(
				"vet_id = ? AND status <> 'cancelled' AND start_time < ? AND end_time > ?",
				ap.VetID, ap.EndTime, ap.StartTime,
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return httperr.ErrSchedulingConflict()
		}

		return tx.Create(ap).Error
	})

	if err != nil {
		if httperr.IsBusiness(err, "time_conflict") {
			return err
		}
		if httperr.IsExclusionConflict(err) {
			return httperr.ErrSchedulingConflict()
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if err := r.db.WithContext(ctx).Save(ap).Error; err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	clinicID uint,
	appointmentID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Where("id = ? AND clinic_id = ?", appointmentID, clinicID).
		Delete(&models.Appointment{})

	if res.Error != nil {
		return false, fmt.Errorf("failed to delete appointment: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// --------------------------------------------------
// Queries
// --------------------------------------------------

func (r *AppointmentGormRepository) ListForVetPeriod(
	ctx context.Context,
	vetID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Pet").
		Where(
			"vet_id = ? AND start_time >= ? AND start_time < ?",
			vetID, start, end,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListForClient(
	ctx context.Context,
	clinicID uint,
	clientID uint,
	page domain.Page,
) ([]models.Appointment, error) {

	order := "start_time ASC"
	if page.Desc {
		order = "start_time DESC"
	}

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Vet").
		Where("clinic_id = ? AND client_id = ?", clinicID, clientID).
		Order(order).
		Offset(page.Offset()).
		Limit(page.PerPage()).
		Find(&apps).Error

	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) SearchAppointments(
	ctx context.Context,
	clinicID uint,
	query string,
	page domain.Page,
) ([]models.Appointment, error) {

	order := "start_time ASC"
	if page.Desc {
		order = "start_time DESC"
	}

	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Pet").
		Where("clinic_id = ?", clinicID)

	query = strings.ToLower(strings.TrimSpace(query))
	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(type) LIKE ? OR LOWER(reason) LIKE ? OR LOWER(notes) LIKE ?",
			like, like, like,
		)
	}

	var apps []models.Appointment
	err := q.
		Order(order).
		Offset(page.Offset()).
		Limit(page.PerPage()).
		Find(&apps).Error

	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListUpcoming(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Vet").
		Where(
			"status IN ('scheduled', 'confirmed') AND start_time >= ? AND start_time < ?",
			from, to,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}
	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
