package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/telecare/telecare/internal/domain/doctor"
)

// ListFilter narrows appointment list queries. Zero values mean "no filter".
type ListFilter struct {
	Status Status
	When   string // "upcoming" or "past"
}

// AppointmentRepository is the appointment ledger. CreateIfFree must perform
// the conflict check and the insert as one atomic unit; a separate
// read-then-write is a correctness bug under concurrent bookings.
type AppointmentRepository interface {
	// CreateIfFree inserts the appointment unless an active appointment for
	// the same doctor lies strictly within SlotDuration of its time, in
	// which case it returns ErrSlotConflict.
	CreateIfFree(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	// FindConflicting returns active appointments for the doctor whose time
	// lies strictly within the window around at.
	FindConflicting(ctx context.Context, doctorID uuid.UUID, at time.Time, window time.Duration) ([]*Appointment, error)
	// ListActiveByDoctorAndRange returns active appointments with
	// scheduled_at in [from, to], ordered by time.
	ListActiveByDoctorAndRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, f ListFilter, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, f ListFilter, limit, offset int) ([]*Appointment, int, error)
}

// DoctorDirectory is the doctor lookup collaborator consumed by the booking
// and slot services. Implemented by the doctor domain service.
type DoctorDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
}
