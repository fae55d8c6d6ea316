package doctor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	doctors map[uuid.UUID]*Doctor
}

func newMockRepo() *mockRepo {
	return &mockRepo{doctors: make(map[uuid.UUID]*Doctor)}
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.VerificationStatus == "" {
		d.VerificationStatus = VerificationPending
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	m.doctors[d.ID] = d
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *mockRepo) ListVerified(_ context.Context, limit, offset int) ([]*Doctor, int, error) {
	var result []*Doctor
	for _, d := range m.doctors {
		if d.VerificationStatus == VerificationVerified {
			result = append(result, d)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) SetAvailability(_ context.Context, id uuid.UUID, availability WeeklyAvailability) error {
	d, ok := m.doctors[id]
	if !ok {
		return ErrNotFound
	}
	d.Availability = availability
	return nil
}

func weekdayOpen(day time.Weekday, windows ...Window) WeeklyAvailability {
	var wa WeeklyAvailability
	wa[int(day)] = DayAvailability{Open: true, Windows: windows}
	return wa
}

func TestService_SetAvailability(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	d := &Doctor{Name: "Dr. Osei"}
	repo.Create(context.Background(), d)

	avail := weekdayOpen(time.Monday, Window{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(12, 0)})
	if err := svc.SetAvailability(context.Background(), d.ID, d.ID, avail); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	open, windows, err := svc.WindowsFor(context.Background(), d.ID, time.Monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !open || len(windows) != 1 {
		t.Errorf("expected one Monday window, got open=%v windows=%v", open, windows)
	}
}

func TestService_SetAvailability_NotOwner(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	d := &Doctor{Name: "Dr. Osei"}
	repo.Create(context.Background(), d)

	err := svc.SetAvailability(context.Background(), uuid.New(), d.ID, WeeklyAvailability{})
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestService_SetAvailability_Invalid(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	d := &Doctor{Name: "Dr. Osei"}
	repo.Create(context.Background(), d)

	bad := weekdayOpen(time.Monday, Window{Start: NewTimeOfDay(12, 0), End: NewTimeOfDay(9, 0)})
	err := svc.SetAvailability(context.Background(), d.ID, d.ID, bad)
	if !errors.Is(err, ErrInvalidAvailability) {
		t.Errorf("expected ErrInvalidAvailability, got %v", err)
	}
}

func TestService_WindowsFor_ClosedDay(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	d := &Doctor{
		Name:         "Dr. Osei",
		Availability: weekdayOpen(time.Monday, Window{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(12, 0)}),
	}
	repo.Create(context.Background(), d)

	open, windows, err := svc.WindowsFor(context.Background(), d.ID, time.Sunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if open || windows != nil {
		t.Errorf("expected closed Sunday, got open=%v windows=%v", open, windows)
	}
}

func TestService_WindowsFor_UnknownDoctor(t *testing.T) {
	svc := NewService(newMockRepo())
	_, _, err := svc.WindowsFor(context.Background(), uuid.New(), time.Monday)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
