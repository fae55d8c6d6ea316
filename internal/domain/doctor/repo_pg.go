package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const doctorCols = `id, name, specialty, verification_status,
	fee_video, fee_audio, fee_chat, availability, created_at, updated_at`

func (r *repoPG) scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var availability []byte
	err := row.Scan(&d.ID, &d.Name, &d.Specialty, &d.VerificationStatus,
		&d.FeeVideo, &d.FeeAudio, &d.FeeChat, &availability, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(availability) > 0 {
		if err := json.Unmarshal(availability, &d.Availability); err != nil {
			return nil, fmt.Errorf("decode availability for doctor %s: %w", d.ID, err)
		}
	}
	return &d, nil
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.VerificationStatus == "" {
		d.VerificationStatus = VerificationPending
	}
	availability, err := json.Marshal(d.Availability)
	if err != nil {
		return fmt.Errorf("encode availability: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO doctor (id, name, specialty, verification_status,
			fee_video, fee_audio, fee_chat, availability)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		d.ID, d.Name, d.Specialty, d.VerificationStatus,
		d.FeeVideo, d.FeeAudio, d.FeeChat, availability)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return r.scanDoctor(r.pool.QueryRow(ctx, `SELECT `+doctorCols+` FROM doctor WHERE id = $1`, id))
}

func (r *repoPG) ListVerified(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM doctor WHERE verification_status = $1`, VerificationVerified,
	).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+doctorCols+` FROM doctor
		WHERE verification_status = $1 ORDER BY name LIMIT $2 OFFSET $3`,
		VerificationVerified, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Doctor
	for rows.Next() {
		d, err := r.scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

func (r *repoPG) SetAvailability(ctx context.Context, id uuid.UUID, availability WeeklyAvailability) error {
	encoded, err := json.Marshal(availability)
	if err != nil {
		return fmt.Errorf("encode availability: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE doctor SET availability = $2, updated_at = NOW() WHERE id = $1`,
		id, encoded)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
