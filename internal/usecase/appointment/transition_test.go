package appointment

import (
	"context"
	"testing"

	"github.com/MedVetSolutions/vet-scheduler/internal/httperr"
)

func TestTransitionLifecycle(t *testing.T) {
	repo := newMemRepo()
	firstID, _ := seedTwoBookings(t, repo)
	uc := NewTransitionAppointment(repo, nil, nil)

	ap, err := uc.Confirm(context.Background(), 1, firstID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if ap.Status != "confirmed" {
		t.Errorf("status = %s, want confirmed", ap.Status)
	}

	if ap, err = uc.Start(context.Background(), 1, firstID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if ap.Status != "in_progress" {
		t.Errorf("status = %s, want in_progress", ap.Status)
	}

	if ap, err = uc.Complete(context.Background(), 1, firstID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if ap.Status != "completed" || ap.CompletedAt == nil {
		t.Errorf("status = %s completedAt = %v", ap.Status, ap.CompletedAt)
	}

	if ap, err = uc.FlagFollowUp(context.Background(), 1, firstID); err != nil {
		t.Fatalf("FlagFollowUp: %v", err)
	}
	if ap.Status != "follow_up_needed" {
		t.Errorf("status = %s, want follow_up_needed", ap.Status)
	}
}

func TestTransitionInvalidState(t *testing.T) {
	repo := newMemRepo()
	firstID, _ := seedTwoBookings(t, repo)
	uc := NewTransitionAppointment(repo, nil, nil)

	if _, err := uc.Complete(context.Background(), 1, firstID); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	// A completed appointment cannot be cancelled or confirmed.
	if _, err := uc.Cancel(context.Background(), 1, firstID); !httperr.IsBusiness(err, "invalid_state") {
		t.Errorf("cancel after completion: want invalid_state, got %v", err)
	}
	if _, err := uc.Confirm(context.Background(), 1, firstID); !httperr.IsBusiness(err, "invalid_state") {
		t.Errorf("confirm after completion: want invalid_state, got %v", err)
	}
}

func TestTransitionNotFound(t *testing.T) {
	repo := newMemRepo()
	uc := NewTransitionAppointment(repo, nil, nil)

	ap, err := uc.Confirm(context.Background(), 1, 42)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if ap != nil {
		t.Error("expected nil for a missing appointment")
	}
}

func TestCancelThenRebook(t *testing.T) {
	repo := newMemRepo()
	firstID, _ := seedTwoBookings(t, repo)
	transitions := NewTransitionAppointment(repo, nil, nil)

	if _, err := transitions.Cancel(context.Background(), 1, firstID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	// The cancelled window is free again.
	create := newCreateUC(repo, fakeAvailability{within: true}, Options{})
	if _, err := create.Execute(context.Background(), baseInput()); err != nil {
		t.Errorf("rebooking a cancelled slot failed: %v", err)
	}
}
