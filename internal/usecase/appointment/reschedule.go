package appointment

import (
	"context"
	"time"

	"github.com/MedVetSolutions/vet-scheduler/internal/audit"
	domain "github.com/MedVetSolutions/vet-scheduler/internal/domain/appointment"
	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
	"github.com/MedVetSolutions/vet-scheduler/internal/notify"
)

// UpdatePatch carries only the fields the caller wants to change.
type UpdatePatch struct {
	VetID     *uint
	StartTime *time.Time
	EndTime   *time.Time

	Type   *string
	Reason *string
	Notes  *string
	PetID  *uint
}

func (p UpdatePatch) Empty() bool {
	return p.VetID == nil &&
		p.StartTime == nil &&
		p.EndTime == nil &&
		p.Type == nil &&
		p.Reason == nil &&
		p.Notes == nil &&
		p.PetID == nil
}

func (p UpdatePatch) touchesWindow() bool {
	return p.VetID != nil || p.StartTime != nil || p.EndTime != nil
}

type RescheduleAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
}

func NewRescheduleAppointment(
	repo domain.Repository,
	auditor *audit.Dispatcher,
	dispatcher *notify.Dispatcher,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:   repo,
		audit:  auditor,
		notify: dispatcher,
	}
}

// Execute applies the patch. A nil appointment return with a nil error
// means not found. An empty patch is a no-op that returns the unchanged
// record without running any conflict check.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	clinicID uint,
	appointmentID uint,
	patch UpdatePatch,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, clinicID, appointmentID)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, nil
	}

	if patch.Empty() {
		return ap, nil
	}

	if patch.touchesWindow() {
		vetID := ap.VetID
		if patch.VetID != nil {
			vetID = *patch.VetID
		}

		start := ap.StartTime
		if patch.StartTime != nil {
			start = *patch.StartTime
		}

		end := ap.EndTime
		if patch.EndTime != nil {
			end = *patch.EndTime
		}

		if !end.After(start) {
			return nil, httperr.ErrBusiness("invalid_time_range")
		}

		// The merged window is checked excluding the appointment itself,
		// so keeping (part of) the original slot never self-conflicts.
		available, err := uc.repo.IsVetAvailable(ctx, vetID, start, end, &ap.ID)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, httperr.ErrSchedulingConflict()
		}

		ap.VetID = vetID
		ap.StartTime = start
		ap.EndTime = end
	}

	if patch.Type != nil {
		ap.Type = *patch.Type
	}
	if patch.Reason != nil {
		ap.Reason = *patch.Reason
	}
	if patch.Notes != nil {
		ap.Notes = *patch.Notes
	}
	if patch.PetID != nil {
		ap.PetID = patch.PetID
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	uc.notify.Dispatch(notify.Event{
		Kind:        notify.EventStatusChanged,
		Appointment: *ap,
	})

	return ap, nil
}
