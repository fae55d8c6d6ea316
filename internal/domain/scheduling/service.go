package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/telecare/telecare/internal/domain/doctor"
	"github.com/telecare/telecare/internal/platform/auth"
)

type Service struct {
	appointments AppointmentRepository
	directory    DoctorDirectory
	now          func() time.Time
}

func NewService(appointments AppointmentRepository, directory DoctorDirectory) *Service {
	return &Service{
		appointments: appointments,
		directory:    directory,
		now:          time.Now,
	}
}

// BookingRequest is a patient's request to reserve a consultation slot.
type BookingRequest struct {
	DoctorID         uuid.UUID        `json:"doctor_id"`
	ScheduledAt      time.Time        `json:"scheduled_at"`
	ConsultationType ConsultationType `json:"consultation_type"`
	Priority         Priority         `json:"priority"`
	Reason           string           `json:"reason"`
	Symptoms         string           `json:"symptoms"`
}

// Book validates a booking request and atomically reserves the slot. Checks
// run in order; the first failure wins.
func (s *Service) Book(ctx context.Context, actor auth.Actor, req BookingRequest) (*Appointment, error) {
	if actor.Role != auth.RolePatient {
		return nil, fmt.Errorf("%w: only patients may book appointments", ErrForbidden)
	}
	if req.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrInvalidInput)
	}

	d, err := s.directory.Get(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("look up doctor %s: %w", req.DoctorID, err)
	}
	if d.VerificationStatus != doctor.VerificationVerified {
		return nil, ErrDoctorUnverified
	}

	if !req.ConsultationType.Valid() {
		return nil, fmt.Errorf("%w: unknown consultation type %q", ErrInvalidInput, req.ConsultationType)
	}
	if req.Priority == "" {
		req.Priority = PriorityNormal
	}
	if !req.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, req.Priority)
	}

	// All instants and availability windows are resolved in UTC.
	at := req.ScheduledAt.UTC().Truncate(time.Minute)
	if at.Sub(s.now()) < LeadTime {
		return nil, ErrLeadTime
	}

	entry := d.Availability.For(at.Weekday())
	if !entry.Open || !withinWindows(entry.Windows, at) {
		return nil, ErrOutsideHours
	}

	fee, ok := d.FeeFor(string(req.ConsultationType))
	if !ok {
		return nil, fmt.Errorf("%w: no fee for consultation type %q", ErrInvalidInput, req.ConsultationType)
	}

	// Fast-fail outside the booking transaction. CreateIfFree re-checks
	// under the per-doctor lock and stays authoritative.
	conflicts, err := s.appointments.FindConflicting(ctx, d.ID, at, SlotDuration)
	if err != nil {
		return nil, fmt.Errorf("conflict check for doctor %s: %w", d.ID, err)
	}
	if len(conflicts) > 0 {
		return nil, ErrSlotConflict
	}

	appt := &Appointment{
		DoctorID:         d.ID,
		PatientID:        actor.ID,
		ScheduledAt:      at,
		DurationMinutes:  SlotMinutes,
		ConsultationType: req.ConsultationType,
		Status:           StatusScheduled,
		Priority:         req.Priority,
		Reason:           req.Reason,
		Symptoms:         req.Symptoms,
		ConsultationFee:  fee,
		PaymentStatus:    PaymentPending,
	}
	if err := s.appointments.CreateIfFree(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// withinWindows reports whether the instant's time of day falls inside one of
// the windows, boundaries inclusive.
func withinWindows(windows []doctor.Window, at time.Time) bool {
	tod := doctor.NewTimeOfDay(at.Hour(), at.Minute())
	for _, w := range windows {
		if w.Contains(tod) {
			return true
		}
	}
	return false
}

// Slots returns the candidate consultation slots for the doctor on the given
// calendar date, chronological, each marked bookable or not. The read is not
// transactional with concurrent bookings; CreateIfFree is the authority at
// booking time.
func (s *Service) Slots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Slot, error) {
	d, err := s.directory.Get(ctx, doctorID)
	if err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("look up doctor %s: %w", doctorID, err)
	}

	date = date.UTC()
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	entry := d.Availability.For(dayStart.Weekday())
	if !entry.Open || len(entry.Windows) == 0 {
		return nil, nil
	}

	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)
	active, err := s.appointments.ListActiveByDoctorAndRange(ctx, doctorID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("load appointments for %s on %s: %w", doctorID, dayStart.Format("2006-01-02"), err)
	}

	return buildSlots(dayStart, entry.Windows, active, s.now()), nil
}

// Get returns the appointment if the actor is a party to it.
func (s *Service) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appt.Party(actor.ID) {
		return nil, ErrForbidden
	}
	return appt, nil
}

// List returns the actor's own appointments, patient or doctor scoped.
func (s *Service) List(ctx context.Context, actor auth.Actor, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	switch actor.Role {
	case auth.RolePatient:
		return s.appointments.ListByPatient(ctx, actor.ID, f, limit, offset)
	case auth.RoleDoctor:
		return s.appointments.ListByDoctor(ctx, actor.ID, f, limit, offset)
	}
	return nil, 0, ErrForbidden
}

// Confirm transitions scheduled -> confirmed. Only the owning doctor.
func (s *Service) Confirm(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != auth.RoleDoctor || actor.ID != appt.DoctorID {
		return nil, fmt.Errorf("%w: only the owning doctor may confirm", ErrForbidden)
	}
	if appt.Status != StatusScheduled {
		return nil, fmt.Errorf("%w: cannot confirm from %q", ErrInvalidTransition, appt.Status)
	}

	appt.Status = StatusConfirmed
	if err := s.appointments.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Cancel transitions scheduled|confirmed -> cancelled. Either owning party
// may cancel; at least CancelLeadTime before the appointment unless the
// priority is emergency. A paid appointment is marked refunded for the full
// consultation fee.
func (s *Service) Cancel(ctx context.Context, actor auth.Actor, id uuid.UUID, reason string) (*Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appt.Party(actor.ID) {
		return nil, fmt.Errorf("%w: not a party to this appointment", ErrForbidden)
	}
	if appt.Status != StatusScheduled && appt.Status != StatusConfirmed {
		return nil, fmt.Errorf("%w: cannot cancel from %q", ErrInvalidTransition, appt.Status)
	}
	now := s.now()
	if appt.Priority != PriorityEmergency && appt.ScheduledAt.Sub(now) < CancelLeadTime {
		return nil, ErrCancelTooLate
	}

	appt.Status = StatusCancelled
	appt.CancellationReason = &reason
	role := actor.Role
	appt.CancelledBy = &role
	appt.CancelledAt = &now
	if appt.PaymentStatus == PaymentPaid {
		appt.PaymentStatus = PaymentRefunded
		refund := appt.ConsultationFee
		appt.RefundAmount = &refund
	}
	if err := s.appointments.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}
