package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	domain "github.com/MedVetSolutions/vet-scheduler/internal/domain/appointment"
	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
	"github.com/MedVetSolutions/vet-scheduler/internal/video"
)

// --------------------------------------------------
// In-memory repository
// --------------------------------------------------

type memRepo struct {
	clinics      map[uint]*models.Clinic
	appointments []*models.Appointment
	nextID       uint
	updates      int
}

func newMemRepo() *memRepo {
	return &memRepo{
		clinics: map[uint]*models.Clinic{
			1: {ID: 1, Name: "Main Street Vet", Timezone: "America/New_York"},
		},
		nextID: 1,
	}
}

func (r *memRepo) GetClinicByID(_ context.Context, id uint) (*models.Clinic, error) {
	return r.clinics[id], nil
}

func (r *memRepo) GetAppointment(_ context.Context, clinicID, id uint) (*models.Appointment, error) {
	for _, ap := range r.appointments {
		if ap.ID == id && ap.ClinicID == clinicID {
			return ap, nil
		}
	}
	return nil, nil
}

func (r *memRepo) GetAppointmentByUUID(_ context.Context, clinicID uint, id uuid.UUID) (*models.Appointment, error) {
	for _, ap := range r.appointments {
		if ap.UUID == id && ap.ClinicID == clinicID {
			return ap, nil
		}
	}
	return nil, nil
}

func (r *memRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	ap.ID = r.nextID
	r.nextID++
	r.appointments = append(r.appointments, ap)
	return nil
}

func (r *memRepo) CreateAppointmentGuarded(ctx context.Context, ap *models.Appointment) error {
	ok, err := r.IsVetAvailable(ctx, ap.VetID, ap.StartTime, ap.EndTime, nil)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrSchedulingConflict()
	}
	return r.CreateAppointment(ctx, ap)
}

func (r *memRepo) IsVetAvailable(_ context.Context, vetID uint, start, end time.Time, excludeID *uint) (bool, error) {
	for _, ap := range r.appointments {
		if ap.VetID != vetID || ap.Status == "cancelled" {
			continue
		}
		if excludeID != nil && ap.ID == *excludeID {
			continue
		}
		if domain.Overlaps(ap.StartTime, ap.EndTime, start, end) {
			return false, nil
		}
	}
	return true, nil
}

func (r *memRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.updates++
	for i, existing := range r.appointments {
		if existing.ID == ap.ID {
			r.appointments[i] = ap
			return nil
		}
	}
	return nil
}

func (r *memRepo) DeleteAppointment(_ context.Context, clinicID, id uint) (bool, error) {
	for i, ap := range r.appointments {
		if ap.ID == id && ap.ClinicID == clinicID {
			r.appointments = append(r.appointments[:i], r.appointments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) ListForVetPeriod(_ context.Context, vetID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.VetID == vetID && ap.StartTime.Before(end) && !ap.StartTime.Before(start) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *memRepo) ListForClient(_ context.Context, clinicID, clientID uint, _ domain.Page) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ClinicID == clinicID && ap.ClientID == clientID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *memRepo) SearchAppointments(_ context.Context, clinicID uint, _ string, _ domain.Page) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ClinicID == clinicID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *memRepo) ListUpcoming(_ context.Context, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if !ap.StartTime.Before(from) && ap.StartTime.Before(to) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

var _ domain.Repository = (*memRepo)(nil)

// --------------------------------------------------
// Fake availability
// --------------------------------------------------

type fakeAvailability struct {
	holiday bool
	within  bool
}

func (f fakeAvailability) IsWindowAvailable(context.Context, uint, time.Time, time.Time) (bool, error) {
	return f.within, nil
}

func (f fakeAvailability) IsHoliday(context.Context, uint, time.Time) (bool, error) {
	return f.holiday, nil
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func newCreateUC(repo *memRepo, avail AvailabilityChecker, opts Options) *CreateAppointment {
	return NewCreateAppointment(repo, avail, nil, nil, nil, opts)
}

func baseInput() CreateAppointmentInput {
	return CreateAppointmentInput{
		ClinicID: 1,
		VetID:    10,
		ClientID: 20,
		Type:     "checkup",
		Date:     "2026-03-10",
		Start:    "09:00",
		End:      "09:30",
	}
}

// --------------------------------------------------
// Create
// --------------------------------------------------

func TestCreateAppointment(t *testing.T) {
	repo := newMemRepo()
	uc := newCreateUC(repo, fakeAvailability{within: true}, Options{})

	ap, err := uc.Execute(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ap.ID == 0 {
		t.Error("appointment not persisted")
	}
	if ap.Status != "scheduled" {
		t.Errorf("status = %s, want scheduled", ap.Status)
	}
	if ap.UUID == uuid.Nil {
		t.Error("uuid not assigned")
	}

	loc, _ := time.LoadLocation("America/New_York")
	wantStart := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)
	if !ap.StartTime.Equal(wantStart) {
		t.Errorf("start = %v, want %v", ap.StartTime, wantStart)
	}
}

func TestCreateAppointmentDefaultDuration(t *testing.T) {
	repo := newMemRepo()
	uc := newCreateUC(repo, fakeAvailability{within: true}, Options{})

	in := baseInput()
	in.End = ""
	in.DurationMin = 0

	ap, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := ap.EndTime.Sub(ap.StartTime); got != 30*time.Minute {
		t.Errorf("duration = %v, want 30m", got)
	}
}

func TestCreateAppointmentDoubleBookingBlocked(t *testing.T) {
	repo := newMemRepo()
	uc := newCreateUC(repo, fakeAvailability{within: true}, Options{})

	if _, err := uc.Execute(context.Background(), baseInput()); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	in := baseInput()
	in.Start = "09:15"
	in.End = "09:45"

	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "time_conflict") {
		t.Errorf("want time_conflict, got %v", err)
	}
	if len(repo.appointments) != 1 {
		t.Errorf("conflicting appointment persisted, count = %d", len(repo.appointments))
	}
}

func TestCreateAppointmentTouchingWindowsAllowed(t *testing.T) {
	repo := newMemRepo()
	uc := newCreateUC(repo, fakeAvailability{within: true}, Options{})

	if _, err := uc.Execute(context.Background(), baseInput()); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	in := baseInput()
	in.Start = "09:30"
	in.End = "10:00"

	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Errorf("back-to-back booking rejected: %v", err)
	}
}

func TestCreateAppointmentOtherVetUnaffected(t *testing.T) {
	repo := newMemRepo()
	uc := newCreateUC(repo, fakeAvailability{within: true}, Options{})

	if _, err := uc.Execute(context.Background(), baseInput()); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	in := baseInput()
	in.VetID = 11

	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Errorf("same window for a different vet rejected: %v", err)
	}
}

func TestCreateAppointmentCancelledSlotFreed(t *testing.T) {
	repo := newMemRepo()
	uc := newCreateUC(repo, fakeAvailability{within: true}, Options{})

	first, err := uc.Execute(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	first.Status = "cancelled"

	if _, err := uc.Execute(context.Background(), baseInput()); err != nil {
		t.Errorf("cancelled slot still blocks: %v", err)
	}
}

func TestCreateAppointmentInvalidInput(t *testing.T) {
	repo := newMemRepo()
	uc := newCreateUC(repo, fakeAvailability{within: true}, Options{})

	in := baseInput()
	in.Start = "10:00"
	in.End = "09:00"
	if _, err := uc.Execute(context.Background(), in); !httperr.IsBusiness(err, "invalid_time_range") {
		t.Errorf("inverted window: want invalid_time_range, got %v", err)
	}

	in = baseInput()
	in.End = in.Start
	if _, err := uc.Execute(context.Background(), in); !httperr.IsBusiness(err, "invalid_time_range") {
		t.Errorf("zero-length window: want invalid_time_range, got %v", err)
	}

	in = baseInput()
	in.Date = "10-03-2026"
	if _, err := uc.Execute(context.Background(), in); !httperr.IsBusiness(err, "invalid_date_or_time") {
		t.Errorf("bad date: want invalid_date_or_time, got %v", err)
	}

	in = baseInput()
	in.ClinicID = 99
	if _, err := uc.Execute(context.Background(), in); !httperr.IsBusiness(err, "clinic_not_found") {
		t.Errorf("unknown clinic: want clinic_not_found, got %v", err)
	}
}

func TestCreateAppointmentAvailabilityEnforcement(t *testing.T) {
	repo := newMemRepo()

	// Holiday blocks when enforcement is on.
	uc := newCreateUC(repo, fakeAvailability{holiday: true}, Options{EnforceAvailability: true})
	if _, err := uc.Execute(context.Background(), baseInput()); !httperr.IsBusiness(err, "vet_on_holiday") {
		t.Errorf("want vet_on_holiday, got %v", err)
	}

	// Outside working hours blocks when enforcement is on.
	uc = newCreateUC(repo, fakeAvailability{within: false}, Options{EnforceAvailability: true})
	if _, err := uc.Execute(context.Background(), baseInput()); !httperr.IsBusiness(err, "outside_availability") {
		t.Errorf("want outside_availability, got %v", err)
	}

	// With enforcement off the same booking goes through.
	uc = newCreateUC(repo, fakeAvailability{holiday: true, within: false}, Options{})
	if _, err := uc.Execute(context.Background(), baseInput()); err != nil {
		t.Errorf("advisory availability must not block: %v", err)
	}
}

func TestCreateAppointmentGuardedPath(t *testing.T) {
	repo := newMemRepo()
	uc := newCreateUC(repo, fakeAvailability{within: true}, Options{GuardBooking: true})

	if _, err := uc.Execute(context.Background(), baseInput()); err != nil {
		t.Fatalf("guarded booking: %v", err)
	}
	if _, err := uc.Execute(context.Background(), baseInput()); !httperr.IsBusiness(err, "time_conflict") {
		t.Errorf("guarded double booking: want time_conflict, got %v", err)
	}
}

func TestCreateAppointmentRemoteGetsMeetingURL(t *testing.T) {
	repo := newMemRepo()
	provisioner := video.NewLinkProvisioner("https://meet.example.com")
	uc := NewCreateAppointment(repo, fakeAvailability{within: true}, provisioner, nil, nil, Options{})

	in := baseInput()
	in.IsRemote = true

	ap, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ap.MeetingURL == "" {
		t.Error("remote appointment has no meeting url")
	}

	in = baseInput()
	in.Start = "11:00"
	in.End = "11:30"
	ap, err = uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ap.MeetingURL != "" {
		t.Errorf("in-person appointment got a meeting url: %s", ap.MeetingURL)
	}
}
