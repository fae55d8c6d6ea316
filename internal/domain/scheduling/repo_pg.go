package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) AppointmentRepository { return &repoPG{pool: pool} }

const apptCols = `id, doctor_id, patient_id, scheduled_at, duration_minutes,
	consultation_type, status, priority, reason, symptoms,
	consultation_fee, payment_status, refund_amount,
	cancellation_reason, cancelled_by, cancelled_at, created_at, updated_at`

const activeStatuses = `('scheduled','confirmed','in_progress')`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.ScheduledAt, &a.DurationMinutes,
		&a.ConsultationType, &a.Status, &a.Priority, &a.Reason, &a.Symptoms,
		&a.ConsultationFee, &a.PaymentStatus, &a.RefundAmount,
		&a.CancellationReason, &a.CancelledBy, &a.CancelledAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// CreateIfFree serializes bookings per doctor with a transaction-scoped
// advisory lock, re-checks the conflict window inside the transaction, and
// inserts only if it is clear. Two concurrent attempts for the same doctor
// cannot both pass the check.
func (r *repoPG) CreateIfFree(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, a.DoctorID,
	); err != nil {
		return fmt.Errorf("acquire booking lock: %w", err)
	}

	var conflicts int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointment
		WHERE doctor_id = $1 AND status IN `+activeStatuses+`
		  AND scheduled_at > $2 AND scheduled_at < $3`,
		a.DoctorID, a.ScheduledAt.Add(-SlotDuration), a.ScheduledAt.Add(SlotDuration),
	).Scan(&conflicts)
	if err != nil {
		return fmt.Errorf("conflict check: %w", err)
	}
	if conflicts > 0 {
		return ErrSlotConflict
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO appointment (id, doctor_id, patient_id, scheduled_at, duration_minutes,
			consultation_type, status, priority, reason, symptoms,
			consultation_fee, payment_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, a.DoctorID, a.PatientID, a.ScheduledAt, a.DurationMinutes,
		a.ConsultationType, a.Status, a.Priority, a.Reason, a.Symptoms,
		a.ConsultationFee, a.PaymentStatus,
	); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointment SET status=$2, payment_status=$3, refund_amount=$4,
			cancellation_reason=$5, cancelled_by=$6, cancelled_at=$7, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Status, a.PaymentStatus, a.RefundAmount,
		a.CancellationReason, a.CancelledBy, a.CancelledAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *repoPG) FindConflicting(ctx context.Context, doctorID uuid.UUID, at time.Time, window time.Duration) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE doctor_id = $1 AND status IN `+activeStatuses+`
		  AND scheduled_at > $2 AND scheduled_at < $3
		ORDER BY scheduled_at`,
		doctorID, at.Add(-window), at.Add(window))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *repoPG) ListActiveByDoctorAndRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE doctor_id = $1 AND status IN `+activeStatuses+`
		  AND scheduled_at >= $2 AND scheduled_at <= $3
		ORDER BY scheduled_at`,
		doctorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, "patient_id", patientID, f, limit, offset)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, "doctor_id", doctorID, f, limit, offset)
}

func (r *repoPG) list(ctx context.Context, ownerCol string, ownerID uuid.UUID, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	where := ` FROM appointment WHERE ` + ownerCol + ` = $1`
	args := []interface{}{ownerID}
	idx := 2

	if f.Status != "" {
		where += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}
	order := ` ORDER BY scheduled_at DESC`
	switch f.When {
	case "upcoming":
		where += ` AND scheduled_at >= NOW()`
		order = ` ORDER BY scheduled_at ASC`
	case "past":
		where += ` AND scheduled_at < NOW()`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + apptCols + where + order + fmt.Sprintf(` LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectAppointments(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func collectAppointments(rows pgx.Rows) ([]*Appointment, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
