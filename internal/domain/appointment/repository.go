package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

// Page controls filtered list reads. Ordering is by start time ascending
// unless Desc is set (latest-first views).
type Page struct {
	Page  int
	Limit int
	Desc  bool
}

func (p Page) Offset() int {
	page := p.Page
	if page <= 0 {
		page = 1
	}
	return (page - 1) * p.PerPage()
}

func (p Page) PerPage() int {
	if p.Limit <= 0 || p.Limit > 200 {
		return 50
	}
	return p.Limit
}

type Repository interface {
	// -------- Clinic --------
	GetClinicByID(
		ctx context.Context,
		id uint,
	) (*models.Clinic, error)

	// -------- Appointment (lookup) --------
	GetAppointment(
		ctx context.Context,
		clinicID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	GetAppointmentByUUID(
		ctx context.Context,
		clinicID uint,
		id uuid.UUID,
	) (*models.Appointment, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// CreateAppointmentGuarded re-runs the conflict scan under a row lock
	// inside the same transaction as the insert.
	CreateAppointmentGuarded(
		ctx context.Context,
		ap *models.Appointment,
	) error

	IsVetAvailable(
		ctx context.Context,
		vetID uint,
		start time.Time,
		end time.Time,
		excludeID *uint,
	) (bool, error)

	// -------- Appointment (state change) --------
	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		clinicID uint,
		appointmentID uint,
	) (bool, error)

	// -------- Queries --------
	ListForVetPeriod(
		ctx context.Context,
		vetID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListForClient(
		ctx context.Context,
		clinicID uint,
		clientID uint,
		page Page,
	) ([]models.Appointment, error)

	SearchAppointments(
		ctx context.Context,
		clinicID uint,
		query string,
		page Page,
	) ([]models.Appointment, error)

	ListUpcoming(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)
}
