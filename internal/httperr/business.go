package httperr

import "errors"

type BusinessError struct {
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessMsg(code, message string) error {
	return BusinessError{Code: code, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// ErrSchedulingConflict builds the conflict error raised by the scheduler
// before any write happens.
func ErrSchedulingConflict() error {
	return ErrBusinessMsg(
		"time_conflict",
		"The selected time slot is not available for the chosen veterinary.",
	)
}
