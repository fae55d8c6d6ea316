package doctor

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	doctors Repository
}

func NewService(doctors Repository) *Service {
	return &Service{doctors: doctors}
}

func (s *Service) Register(ctx context.Context, d *Doctor) error {
	if err := d.Availability.Normalize(); err != nil {
		return err
	}
	return s.doctors.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) ListVerified(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.ListVerified(ctx, limit, offset)
}

// SetAvailability replaces the doctor's weekly pattern. Only the owning
// doctor may change it.
func (s *Service) SetAvailability(ctx context.Context, actorID, doctorID uuid.UUID, availability WeeklyAvailability) error {
	if actorID != doctorID {
		return ErrNotOwner
	}
	if err := availability.Normalize(); err != nil {
		return err
	}
	return s.doctors.SetAvailability(ctx, doctorID, availability)
}

// WindowsFor returns whether the doctor is open on the weekday and the
// ordered open windows. A closed day yields no windows.
func (s *Service) WindowsFor(ctx context.Context, doctorID uuid.UUID, day time.Weekday) (bool, []Window, error) {
	d, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return false, nil, err
	}
	entry := d.Availability.For(day)
	if !entry.Open {
		return false, nil, nil
	}
	return true, entry.Windows, nil
}
