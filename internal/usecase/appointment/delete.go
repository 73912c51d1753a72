package appointment

import (
	"context"

	"github.com/MedVetSolutions/vet-scheduler/internal/audit"
	domain "github.com/MedVetSolutions/vet-scheduler/internal/domain/appointment"
)

// DeleteAppointment hard-deletes a record, admin use only. Absence is not
// an error: the boolean tells the caller whether anything was removed.
type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	auditor *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: auditor,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	clinicID uint,
	appointmentID uint,
) (bool, error) {

	deleted, err := uc.repo.DeleteAppointment(ctx, clinicID, appointmentID)
	if err != nil {
		return false, err
	}

	if deleted {
		uc.audit.Dispatch(audit.Event{
			ClinicID: clinicID,
			Action:   "appointment_deleted",
			Entity:   "appointment",
			EntityID: &appointmentID,
		})
	}

	return deleted, nil
}
