package availability

import (
	"context"
	"testing"
	"time"

	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

type memAvailabilityRepo struct {
	slots    []models.AvailabilitySlot
	holidays []models.Holiday
	nextID   uint
}

func (r *memAvailabilityRepo) ListSlots(_ context.Context, vetID uint) ([]models.AvailabilitySlot, error) {
	var out []models.AvailabilitySlot
	for _, s := range r.slots {
		if s.VetID == vetID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memAvailabilityRepo) ListSlotsForDay(_ context.Context, vetID uint, weekday int) ([]models.AvailabilitySlot, error) {
	var out []models.AvailabilitySlot
	for _, s := range r.slots {
		if s.VetID == vetID && s.Weekday == weekday {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memAvailabilityRepo) ReplaceSlots(_ context.Context, vetID uint, slots []models.AvailabilitySlot) error {
	var kept []models.AvailabilitySlot
	for _, s := range r.slots {
		if s.VetID != vetID {
			kept = append(kept, s)
		}
	}
	for i := range slots {
		slots[i].VetID = vetID
	}
	r.slots = append(kept, slots...)
	return nil
}

func (r *memAvailabilityRepo) ListHolidays(_ context.Context, vetID uint) ([]models.Holiday, error) {
	var out []models.Holiday
	for _, h := range r.holidays {
		if h.VetID == vetID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *memAvailabilityRepo) CountHolidaysOn(_ context.Context, vetID uint, date time.Time) (int64, error) {
	var n int64
	for _, h := range r.holidays {
		if h.VetID == vetID && !date.Before(h.StartDate) && !date.After(h.EndDate) {
			n++
		}
	}
	return n, nil
}

func (r *memAvailabilityRepo) CreateHoliday(_ context.Context, h *models.Holiday) error {
	r.nextID++
	h.ID = r.nextID
	r.holidays = append(r.holidays, *h)
	return nil
}

func (r *memAvailabilityRepo) DeleteHoliday(_ context.Context, vetID, holidayID uint) (bool, error) {
	for i, h := range r.holidays {
		if h.ID == holidayID && h.VetID == vetID {
			r.holidays = append(r.holidays[:i], r.holidays[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

var _ Repository = (*memAvailabilityRepo)(nil)

func vetWithMondaySplitShift() *memAvailabilityRepo {
	return &memAvailabilityRepo{
		slots: []models.AvailabilitySlot{
			{VetID: 10, Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
			{VetID: 10, Weekday: 1, StartTime: "14:00", EndTime: "18:00"},
		},
	}
}

func TestIsVetAvailableAt(t *testing.T) {
	svc := NewService(vetWithMondaySplitShift(), nil)
	ctx := context.Background()

	cases := []struct {
		hhmm string
		want bool
	}{
		{"09:00", true}, // slot bounds are inclusive
		{"12:00", true},
		{"10:30", true},
		{"12:01", false}, // lunch gap
		{"13:59", false},
		{"14:00", true},
		{"18:00", true},
		{"18:01", false},
		{"08:59", false},
	}

	for _, tc := range cases {
		got, err := svc.IsVetAvailableAt(ctx, 10, time.Monday, tc.hhmm)
		if err != nil {
			t.Fatalf("%s: %v", tc.hhmm, err)
		}
		if got != tc.want {
			t.Errorf("monday %s: available = %v, want %v", tc.hhmm, got, tc.want)
		}
	}

	// No slots on sunday.
	got, err := svc.IsVetAvailableAt(ctx, 10, time.Sunday, "10:00")
	if err != nil {
		t.Fatalf("sunday: %v", err)
	}
	if got {
		t.Error("sunday should have no availability")
	}

	if _, err := svc.IsVetAvailableAt(ctx, 10, time.Monday, "25:99"); !httperr.IsBusiness(err, "invalid_time") {
		t.Errorf("bad time: want invalid_time, got %v", err)
	}
}

func TestIsWindowAvailable(t *testing.T) {
	svc := NewService(vetWithMondaySplitShift(), nil)
	ctx := context.Background()

	// 2026-03-09 is a Monday.
	day := func(h, m int) time.Time {
		return time.Date(2026, 3, 9, h, m, 0, 0, time.UTC)
	}

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"inside morning slot", day(9, 30), day(10, 0), true},
		{"whole morning slot", day(9, 0), day(12, 0), true},
		{"spills past slot end", day(11, 30), day(12, 30), false},
		{"starts before slot", day(8, 30), day(9, 30), false},
		{"spans the lunch gap", day(11, 0), day(15, 0), false},
		{"inside afternoon slot", day(15, 0), day(16, 0), true},
	}

	for _, tc := range cases {
		got, err := svc.IsWindowAvailable(ctx, 10, tc.start, tc.end)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: available = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSetWeeklyScheduleValidation(t *testing.T) {
	repo := &memAvailabilityRepo{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	err := svc.SetWeeklySchedule(ctx, 10, []models.AvailabilitySlot{
		{Weekday: 7, StartTime: "09:00", EndTime: "12:00"},
	})
	if !httperr.IsBusiness(err, "invalid_weekday") {
		t.Errorf("weekday 7: want invalid_weekday, got %v", err)
	}

	err = svc.SetWeeklySchedule(ctx, 10, []models.AvailabilitySlot{
		{Weekday: 1, StartTime: "9am", EndTime: "12:00"},
	})
	if !httperr.IsBusiness(err, "invalid_time") {
		t.Errorf("bad time: want invalid_time, got %v", err)
	}

	// Overlapping slots for the same vet are legal.
	err = svc.SetWeeklySchedule(ctx, 10, []models.AvailabilitySlot{
		{Weekday: 1, StartTime: "09:00", EndTime: "13:00"},
		{Weekday: 1, StartTime: "12:00", EndTime: "18:00"},
	})
	if err != nil {
		t.Errorf("overlapping slots rejected: %v", err)
	}
	if len(repo.slots) != 2 {
		t.Errorf("slots persisted = %d, want 2", len(repo.slots))
	}
}

func TestWeeklyScheduleGroupsByWeekday(t *testing.T) {
	svc := NewService(vetWithMondaySplitShift(), nil)

	schedule, err := svc.WeeklySchedule(context.Background(), 10)
	if err != nil {
		t.Fatalf("WeeklySchedule: %v", err)
	}
	if len(schedule[1]) != 2 {
		t.Errorf("monday slots = %d, want 2", len(schedule[1]))
	}
	if len(schedule[2]) != 0 {
		t.Errorf("tuesday slots = %d, want 0", len(schedule[2]))
	}
}

func TestHolidays(t *testing.T) {
	repo := &memAvailabilityRepo{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	bad := &models.Holiday{
		VetID:     10,
		StartDate: time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := svc.AddHoliday(ctx, bad); !httperr.IsBusiness(err, "invalid_date_range") {
		t.Errorf("inverted range: want invalid_date_range, got %v", err)
	}

	h := &models.Holiday{
		VetID:     10,
		StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := svc.AddHoliday(ctx, h); err != nil {
		t.Fatalf("single-day holiday: %v", err)
	}

	holiday, err := svc.IsHoliday(ctx, 10, time.Date(2026, 7, 1, 15, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("IsHoliday: %v", err)
	}
	if !holiday {
		t.Error("single-day holiday not detected")
	}

	holiday, _ = svc.IsHoliday(ctx, 10, time.Date(2026, 7, 2, 9, 0, 0, 0, time.UTC))
	if holiday {
		t.Error("day after the holiday flagged")
	}
}
