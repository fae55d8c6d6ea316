package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	ListVerified(ctx context.Context, limit, offset int) ([]*Doctor, int, error)
	SetAvailability(ctx context.Context, id uuid.UUID, availability WeeklyAvailability) error
}
