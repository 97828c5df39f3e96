package httperr

import (
	"errors"
	"fmt"
)

// Business error codes used by the booking core. Handlers map them onto HTTP
// statuses; the message always names the specific violated rule.
const (
	CodePenalized          = "penalized"
	CodeTutorUnavailable   = "tutor_unavailable"
	CodeTooSoon            = "too_soon"
	CodeTooFar             = "too_far"
	CodeInvalidDuration    = "invalid_duration"
	CodeNoAvailability     = "no_availability"
	CodeOutsideWindow      = "outside_window"
	CodeTimeConflict       = "time_conflict"
	CodeInvalidTransition  = "invalid_transition"
	CodeNoPayment          = "no_payment"
	CodePaymentUnavailable = "payment_unavailable"
	CodeRefundFailed       = "refund_failed"
	CodeNotFound           = "not_found"
	CodeTooLateToChange    = "too_late_to_reschedule"
)

type BusinessError struct {
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessf(code, format string, args ...any) error {
	return BusinessError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
