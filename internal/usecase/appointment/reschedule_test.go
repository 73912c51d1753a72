package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
)

func seedTwoBookings(t *testing.T, repo *memRepo) (first, second uint) {
	t.Helper()

	uc := newCreateUC(repo, fakeAvailability{within: true}, Options{})

	a, err := uc.Execute(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("seed first: %v", err)
	}

	in := baseInput()
	in.Start = "10:00"
	in.End = "10:30"
	b, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("seed second: %v", err)
	}

	return a.ID, b.ID
}

func TestRescheduleWithinOwnWindow(t *testing.T) {
	repo := newMemRepo()
	firstID, _ := seedTwoBookings(t, repo)
	uc := NewRescheduleAppointment(repo, nil, nil)

	// Shift by 15 minutes: the new window overlaps the old one, which must
	// not count as a conflict with itself.
	loc, _ := time.LoadLocation("America/New_York")
	start := time.Date(2026, 3, 10, 9, 15, 0, 0, loc)
	end := time.Date(2026, 3, 10, 9, 45, 0, 0, loc)

	ap, err := uc.Execute(context.Background(), 1, firstID, UpdatePatch{
		StartTime: &start,
		EndTime:   &end,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !ap.StartTime.Equal(start) || !ap.EndTime.Equal(end) {
		t.Errorf("window = [%v, %v), want [%v, %v)", ap.StartTime, ap.EndTime, start, end)
	}
}

func TestRescheduleIntoOtherBookingBlocked(t *testing.T) {
	repo := newMemRepo()
	firstID, _ := seedTwoBookings(t, repo)
	uc := NewRescheduleAppointment(repo, nil, nil)

	loc, _ := time.LoadLocation("America/New_York")
	start := time.Date(2026, 3, 10, 9, 45, 0, 0, loc)
	end := time.Date(2026, 3, 10, 10, 15, 0, 0, loc)

	_, err := uc.Execute(context.Background(), 1, firstID, UpdatePatch{
		StartTime: &start,
		EndTime:   &end,
	})
	if !httperr.IsBusiness(err, "time_conflict") {
		t.Errorf("want time_conflict, got %v", err)
	}
}

func TestRescheduleVetChangeChecksNewVet(t *testing.T) {
	repo := newMemRepo()
	firstID, _ := seedTwoBookings(t, repo)
	uc := NewRescheduleAppointment(repo, nil, nil)

	// Vet 11 has no bookings, so moving the appointment over is fine even
	// though the window stays the same.
	newVet := uint(11)
	ap, err := uc.Execute(context.Background(), 1, firstID, UpdatePatch{VetID: &newVet})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ap.VetID != newVet {
		t.Errorf("vet = %d, want %d", ap.VetID, newVet)
	}
}

func TestRescheduleEmptyPatchIsNoOp(t *testing.T) {
	repo := newMemRepo()
	firstID, _ := seedTwoBookings(t, repo)
	uc := NewRescheduleAppointment(repo, nil, nil)

	before := repo.updates
	ap, err := uc.Execute(context.Background(), 1, firstID, UpdatePatch{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ap == nil {
		t.Fatal("expected the unchanged appointment back")
	}
	if repo.updates != before {
		t.Error("empty patch must not write")
	}
}

func TestRescheduleDetailOnlyPatchSkipsConflictCheck(t *testing.T) {
	repo := newMemRepo()
	firstID, _ := seedTwoBookings(t, repo)
	uc := NewRescheduleAppointment(repo, nil, nil)

	notes := "bring previous lab results"
	ap, err := uc.Execute(context.Background(), 1, firstID, UpdatePatch{Notes: &notes})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ap.Notes != notes {
		t.Errorf("notes = %q, want %q", ap.Notes, notes)
	}
}

func TestRescheduleInvalidWindow(t *testing.T) {
	repo := newMemRepo()
	firstID, _ := seedTwoBookings(t, repo)
	uc := NewRescheduleAppointment(repo, nil, nil)

	loc, _ := time.LoadLocation("America/New_York")
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, loc)
	end := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)

	_, err := uc.Execute(context.Background(), 1, firstID, UpdatePatch{
		StartTime: &start,
		EndTime:   &end,
	})
	if !httperr.IsBusiness(err, "invalid_time_range") {
		t.Errorf("want invalid_time_range, got %v", err)
	}
}

func TestRescheduleNotFound(t *testing.T) {
	repo := newMemRepo()
	uc := NewRescheduleAppointment(repo, nil, nil)

	notes := "x"
	ap, err := uc.Execute(context.Background(), 1, 999, UpdatePatch{Notes: &notes})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ap != nil {
		t.Error("expected nil for a missing appointment")
	}
}
