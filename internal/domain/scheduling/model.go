package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// SlotMinutes is the fixed consultation length. The conflict window around an
// existing appointment equals the slot duration.
const SlotMinutes = 30

// SlotDuration is SlotMinutes as a time.Duration.
const SlotDuration = SlotMinutes * time.Minute

// LeadTime is the minimum gap between "now" and a requested appointment
// time, boundary inclusive.
const LeadTime = SlotDuration

// CancelLeadTime is the minimum gap between "now" and the appointment time
// for a cancellation to be accepted. Waived for emergency priority.
const CancelLeadTime = 2 * time.Hour

type ConsultationType string

const (
	TypeVideo ConsultationType = "video"
	TypeAudio ConsultationType = "audio"
	TypeChat  ConsultationType = "chat"
)

func (t ConsultationType) Valid() bool {
	switch t {
	case TypeVideo, TypeAudio, TypeChat:
		return true
	}
	return false
}

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Active reports whether the appointment still occupies its slot. Only
// active appointments participate in conflict checks.
func (s Status) Active() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Priority string

const (
	PriorityNormal    Priority = "normal"
	PriorityUrgent    Priority = "urgent"
	PriorityEmergency Priority = "emergency"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityNormal, PriorityUrgent, PriorityEmergency:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Appointment maps to the appointment table. ConsultationFee is a snapshot of
// the doctor's fee for the consultation type at booking time, in cents.
// Appointments are never deleted; cancellation is a status change.
type Appointment struct {
	ID                 uuid.UUID        `db:"id" json:"id"`
	DoctorID           uuid.UUID        `db:"doctor_id" json:"doctor_id"`
	PatientID          uuid.UUID        `db:"patient_id" json:"patient_id"`
	ScheduledAt        time.Time        `db:"scheduled_at" json:"scheduled_at"`
	DurationMinutes    int              `db:"duration_minutes" json:"duration_minutes"`
	ConsultationType   ConsultationType `db:"consultation_type" json:"consultation_type"`
	Status             Status           `db:"status" json:"status"`
	Priority           Priority         `db:"priority" json:"priority"`
	Reason             string           `db:"reason" json:"reason,omitempty"`
	Symptoms           string           `db:"symptoms" json:"symptoms,omitempty"`
	ConsultationFee    int64            `db:"consultation_fee" json:"consultation_fee"`
	PaymentStatus      PaymentStatus    `db:"payment_status" json:"payment_status"`
	RefundAmount       *int64           `db:"refund_amount" json:"refund_amount,omitempty"`
	CancellationReason *string          `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CancelledBy        *string          `db:"cancelled_by" json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time       `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt          time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time        `db:"updated_at" json:"updated_at"`
}

// Party reports whether the given actor id is the doctor or the patient on
// the appointment.
func (a *Appointment) Party(actorID uuid.UUID) bool {
	return actorID == a.DoctorID || actorID == a.PatientID
}

// ConflictsWith reports whether an appointment at candidate would violate the
// conflict window around this appointment's time. The window is strict:
// exactly SlotDuration apart does not conflict.
func (a *Appointment) ConflictsWith(candidate time.Time) bool {
	delta := a.ScheduledAt.Sub(candidate)
	if delta < 0 {
		delta = -delta
	}
	return delta < SlotDuration
}
