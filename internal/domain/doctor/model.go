package doctor

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// Doctor maps to the doctor table. Fees are per consultation type, in cents.
type Doctor struct {
	ID                 uuid.UUID          `db:"id" json:"id"`
	Name               string             `db:"name" json:"name"`
	Specialty          string             `db:"specialty" json:"specialty"`
	VerificationStatus VerificationStatus `db:"verification_status" json:"verification_status"`
	FeeVideo           int64              `db:"fee_video" json:"fee_video"`
	FeeAudio           int64              `db:"fee_audio" json:"fee_audio"`
	FeeChat            int64              `db:"fee_chat" json:"fee_chat"`
	Availability       WeeklyAvailability `db:"availability" json:"availability"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updated_at"`
}

// FeeFor returns the doctor's fee for a consultation type.
func (d *Doctor) FeeFor(consultationType string) (int64, bool) {
	switch consultationType {
	case "video":
		return d.FeeVideo, true
	case "audio":
		return d.FeeAudio, true
	case "chat":
		return d.FeeChat, true
	}
	return 0, false
}

// TimeOfDay is a minute-granularity clock time, timezone-naive. It marshals
// as "HH:MM".
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses "HH:MM" in 24-hour format. Trailing or leading text
// is rejected.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return NewTimeOfDay(parsed.Hour(), parsed.Minute()), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// OnDate anchors the time of day to a calendar date in the date's location.
func (t TimeOfDay) OnDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Window is a contiguous open interval of a weekday during which the doctor
// accepts bookings. Start and End are both inclusive booking boundaries.
type Window struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Contains reports whether the time of day falls inside the window,
// boundaries included.
func (w Window) Contains(t TimeOfDay) bool {
	return t >= w.Start && t <= w.End
}

// DayAvailability is the recurring pattern for a single weekday.
type DayAvailability struct {
	Open    bool     `json:"open"`
	Windows []Window `json:"windows,omitempty"`
}

// WeeklyAvailability holds one entry per weekday, indexed by time.Weekday
// (0 = Sunday).
type WeeklyAvailability [7]DayAvailability

// For returns the availability entry for the given weekday.
func (wa WeeklyAvailability) For(day time.Weekday) DayAvailability {
	return wa[int(day)]
}

// Normalize sorts each day's windows by start time and validates them:
// every window must satisfy start < end and windows within a weekday must
// not overlap. Returns ErrInvalidAvailability describing the first violation.
func (wa *WeeklyAvailability) Normalize() error {
	for day := range wa {
		windows := wa[day].Windows
		sort.Slice(windows, func(i, j int) bool {
			return windows[i].Start < windows[j].Start
		})
		for i, w := range windows {
			if w.Start >= w.End {
				return fmt.Errorf("%w: %s window %s-%s has start >= end",
					ErrInvalidAvailability, time.Weekday(day), w.Start, w.End)
			}
			if i > 0 && w.Start < windows[i-1].End {
				return fmt.Errorf("%w: %s windows %s-%s and %s-%s overlap",
					ErrInvalidAvailability, time.Weekday(day),
					windows[i-1].Start, windows[i-1].End, w.Start, w.End)
			}
		}
	}
	return nil
}
