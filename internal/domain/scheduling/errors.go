package scheduling

import "errors"

// Errors surfaced by booking, slot generation, and lifecycle transitions.
// Each maps to a distinct HTTP status in the handler.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrForbidden           = errors.New("not allowed for this actor")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDoctorUnverified    = errors.New("doctor is not verified")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrLeadTime            = errors.New("appointment must be at least 30 minutes in the future")
	ErrOutsideHours        = errors.New("requested time is outside the doctor's availability")
	ErrSlotConflict        = errors.New("slot conflicts with an existing appointment")
	ErrCancelTooLate       = errors.New("appointments can only be cancelled at least 2 hours in advance")
	ErrInvalidTransition   = errors.New("invalid status transition")
)
