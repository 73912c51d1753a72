package appointment

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/MedVetSolutions/vet-scheduler/internal/audit"
	domain "github.com/MedVetSolutions/vet-scheduler/internal/domain/appointment"
	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
	"github.com/MedVetSolutions/vet-scheduler/internal/notify"
	"github.com/MedVetSolutions/vet-scheduler/internal/timezone"
	"github.com/MedVetSolutions/vet-scheduler/internal/video"
)

// AvailabilityChecker is consulted only when availability enforcement is
// switched on; by default weekly hours and holidays are advisory.
type AvailabilityChecker interface {
	IsWindowAvailable(ctx context.Context, vetID uint, start, end time.Time) (bool, error)
	IsHoliday(ctx context.Context, vetID uint, date time.Time) (bool, error)
}

type Options struct {
	EnforceAvailability bool
	GuardBooking        bool
}

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClinicID uint
	VetID    uint
	ClientID uint
	PetID    *uint

	Type   string
	Reason string
	Notes  string

	Date  string // 2006-01-02
	Start string // 15:04
	End   string // 15:04, optional when DurationMin is set

	DurationMin int
	IsRemote    bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo         domain.Repository
	availability AvailabilityChecker
	video        video.Provisioner
	notify       *notify.Dispatcher
	audit        *audit.Dispatcher
	opts         Options
}

func NewCreateAppointment(
	repo domain.Repository,
	availability AvailabilityChecker,
	provisioner video.Provisioner,
	dispatcher *notify.Dispatcher,
	auditor *audit.Dispatcher,
	opts Options,
) *CreateAppointment {
	return &CreateAppointment{
		repo:         repo,
		availability: availability,
		video:        provisioner,
		notify:       dispatcher,
		audit:        auditor,
		opts:         opts,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, in.ClinicID)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, httperr.ErrBusiness("clinic_not_found")
	}

	loc := timezone.Location(clinic.Timezone)

	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Start, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	var end time.Time
	if in.End != "" {
		end, err = time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.End, loc)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
	} else {
		duration := in.DurationMin
		if duration <= 0 {
			duration = 30
		}
		end = start.Add(time.Duration(duration) * time.Minute)
	}

	if !end.After(start) {
		return nil, httperr.ErrBusiness("invalid_time_range")
	}

	if uc.opts.EnforceAvailability {
		holiday, err := uc.availability.IsHoliday(ctx, in.VetID, start)
		if err != nil {
			return nil, err
		}
		if holiday {
			return nil, httperr.ErrBusiness("vet_on_holiday")
		}

		within, err := uc.availability.IsWindowAvailable(ctx, in.VetID, start, end)
		if err != nil {
			return nil, err
		}
		if !within {
			return nil, httperr.ErrBusiness("outside_availability")
		}
	}

	// Conflict check happens strictly before any write.
	available, err := uc.repo.IsVetAvailable(ctx, in.VetID, start, end, nil)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, httperr.ErrSchedulingConflict()
	}

	ap := &models.Appointment{
		UUID:      uuid.New(),
		ClinicID:  in.ClinicID,
		VetID:     in.VetID,
		ClientID:  in.ClientID,
		PetID:     in.PetID,
		Type:      in.Type,
		Reason:    in.Reason,
		Notes:     in.Notes,
		StartTime: start,
		EndTime:   end,
		Status:    string(domain.InitialStatus()),
		IsRemote:  in.IsRemote,
	}

	// Video provisioning must never block persistence; on failure the
	// meeting URL stays empty for later backfill.
	if in.IsRemote && uc.video != nil {
		if meeting, err := uc.video.CreateMeeting(ctx, ap); err != nil {
			log.Println("video provisioning failed:", err)
		} else {
			ap.MeetingURL = meeting.URL
		}
	}

	if uc.opts.GuardBooking {
		err = uc.repo.CreateAppointmentGuarded(ctx, ap)
	} else {
		err = uc.repo.CreateAppointment(ctx, ap)
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: in.ClinicID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	uc.notify.Dispatch(notify.Event{
		Kind:        notify.EventCreated,
		Appointment: *ap,
	})

	return ap, nil
}
