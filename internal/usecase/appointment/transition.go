package appointment

import (
	"context"
	"time"

	"github.com/MedVetSolutions/vet-scheduler/internal/audit"
	domain "github.com/MedVetSolutions/vet-scheduler/internal/domain/appointment"
	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
	"github.com/MedVetSolutions/vet-scheduler/internal/notify"
	"github.com/MedVetSolutions/vet-scheduler/internal/timezone"
)

// TransitionAppointment moves an appointment through its status machine.
// None of the transitions re-run the conflict check: cancelling frees the
// slot precisely because cancelled appointments leave the overlap scan.
type TransitionAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
}

func NewTransitionAppointment(
	repo domain.Repository,
	auditor *audit.Dispatcher,
	dispatcher *notify.Dispatcher,
) *TransitionAppointment {
	return &TransitionAppointment{
		repo:   repo,
		audit:  auditor,
		notify: dispatcher,
	}
}

func (uc *TransitionAppointment) Confirm(
	ctx context.Context,
	clinicID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.apply(ctx, clinicID, appointmentID, "appointment_confirmed", notify.EventConfirmed,
		func(ap *models.Appointment, now time.Time) error {
			return domain.Confirm(ap, now)
		})
}

func (uc *TransitionAppointment) Start(
	ctx context.Context,
	clinicID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.apply(ctx, clinicID, appointmentID, "appointment_started", notify.EventStatusChanged,
		func(ap *models.Appointment, _ time.Time) error {
			return domain.Start(ap)
		})
}

func (uc *TransitionAppointment) Complete(
	ctx context.Context,
	clinicID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.apply(ctx, clinicID, appointmentID, "appointment_completed", notify.EventStatusChanged,
		func(ap *models.Appointment, now time.Time) error {
			return domain.Complete(ap, now)
		})
}

func (uc *TransitionAppointment) Cancel(
	ctx context.Context,
	clinicID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.apply(ctx, clinicID, appointmentID, "appointment_cancelled", notify.EventCancelled,
		func(ap *models.Appointment, now time.Time) error {
			return domain.Cancel(ap, now)
		})
}

func (uc *TransitionAppointment) FlagFollowUp(
	ctx context.Context,
	clinicID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.apply(ctx, clinicID, appointmentID, "appointment_follow_up", notify.EventStatusChanged,
		func(ap *models.Appointment, _ time.Time) error {
			return domain.FlagFollowUp(ap)
		})
}

func (uc *TransitionAppointment) apply(
	ctx context.Context,
	clinicID uint,
	appointmentID uint,
	auditAction string,
	eventKind notify.EventKind,
	transition func(*models.Appointment, time.Time) error,
) (*models.Appointment, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, httperr.ErrBusiness("clinic_not_found")
	}

	ap, err := uc.repo.GetAppointment(ctx, clinicID, appointmentID)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, nil
	}

	now := timezone.NowIn(clinic.Timezone)
	if err := transition(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		Action:   auditAction,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	uc.notify.Dispatch(notify.Event{
		Kind:        eventKind,
		Appointment: *ap,
	})

	return ap, nil
}
