package appointment

import "github.com/MedVetSolutions/vet-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled      Status = "scheduled"
	StatusConfirmed      Status = "confirmed"
	StatusInProgress     Status = "in_progress"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
	StatusFollowUpNeeded Status = "follow_up_needed"
)

// ===============================
// Validations
// ===============================

func CanConfirm(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanStart(current Status) error {
	if current != StatusScheduled && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	switch current {
	case StatusScheduled, StatusConfirmed, StatusInProgress:
		return nil
	}
	return httperr.ErrBusiness("invalid_state")
}

// Cancelling is allowed from any state that has not already ended.
func CanCancel(current Status) error {
	if current == StatusCompleted || current == StatusCancelled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanFlagFollowUp(current Status) error {
	if current != StatusCompleted {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
