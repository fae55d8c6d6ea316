package doctor

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"09:00", NewTimeOfDay(9, 0), false},
		{"23:59", NewTimeOfDay(23, 59), false},
		{"00:00", NewTimeOfDay(0, 0), false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"10:20pm", 0, true},
		{" 09:00", 0, true},
		{"09:00 ", 0, true},
		{"garbage", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTimeOfDay_JSONRoundTrip(t *testing.T) {
	w := Window{Start: NewTimeOfDay(9, 30), End: NewTimeOfDay(12, 0)}
	data, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"start":"09:30","end":"12:00"}` {
		t.Errorf("unexpected JSON: %s", data)
	}
	var back Window
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != w {
		t.Errorf("round trip mismatch: %+v != %+v", back, w)
	}
}

func TestTimeOfDay_OnDate(t *testing.T) {
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC) // a Monday
	at := NewTimeOfDay(9, 30).OnDate(date)
	want := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)
	if !at.Equal(want) {
		t.Errorf("OnDate = %v, want %v", at, want)
	}
}

func TestWindow_Contains(t *testing.T) {
	w := Window{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(12, 0)}
	if !w.Contains(NewTimeOfDay(9, 0)) {
		t.Error("start boundary should be inside")
	}
	if !w.Contains(NewTimeOfDay(12, 0)) {
		t.Error("end boundary should be inside")
	}
	if w.Contains(NewTimeOfDay(8, 59)) {
		t.Error("one minute before start should be outside")
	}
	if w.Contains(NewTimeOfDay(12, 1)) {
		t.Error("one minute after end should be outside")
	}
}

func TestWeeklyAvailability_Normalize(t *testing.T) {
	t.Run("sorts windows", func(t *testing.T) {
		var wa WeeklyAvailability
		wa[int(time.Monday)] = DayAvailability{Open: true, Windows: []Window{
			{Start: NewTimeOfDay(14, 0), End: NewTimeOfDay(17, 0)},
			{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(12, 0)},
		}}
		if err := wa.Normalize(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		windows := wa.For(time.Monday).Windows
		if windows[0].Start != NewTimeOfDay(9, 0) {
			t.Errorf("expected windows sorted by start, got %v first", windows[0].Start)
		}
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		var wa WeeklyAvailability
		wa[int(time.Tuesday)] = DayAvailability{Open: true, Windows: []Window{
			{Start: NewTimeOfDay(12, 0), End: NewTimeOfDay(9, 0)},
		}}
		if err := wa.Normalize(); !errors.Is(err, ErrInvalidAvailability) {
			t.Errorf("expected ErrInvalidAvailability, got %v", err)
		}
	})

	t.Run("rejects zero-length window", func(t *testing.T) {
		var wa WeeklyAvailability
		wa[int(time.Tuesday)] = DayAvailability{Open: true, Windows: []Window{
			{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(9, 0)},
		}}
		if err := wa.Normalize(); !errors.Is(err, ErrInvalidAvailability) {
			t.Errorf("expected ErrInvalidAvailability, got %v", err)
		}
	})

	t.Run("rejects overlapping windows", func(t *testing.T) {
		var wa WeeklyAvailability
		wa[int(time.Friday)] = DayAvailability{Open: true, Windows: []Window{
			{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(12, 0)},
			{Start: NewTimeOfDay(11, 0), End: NewTimeOfDay(14, 0)},
		}}
		if err := wa.Normalize(); !errors.Is(err, ErrInvalidAvailability) {
			t.Errorf("expected ErrInvalidAvailability, got %v", err)
		}
	})

	t.Run("adjacent windows allowed", func(t *testing.T) {
		var wa WeeklyAvailability
		wa[int(time.Friday)] = DayAvailability{Open: true, Windows: []Window{
			{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(12, 0)},
			{Start: NewTimeOfDay(12, 0), End: NewTimeOfDay(14, 0)},
		}}
		if err := wa.Normalize(); err != nil {
			t.Errorf("adjacent windows should be valid, got %v", err)
		}
	})
}

func TestDoctor_FeeFor(t *testing.T) {
	d := &Doctor{FeeVideo: 5000, FeeAudio: 3000, FeeChat: 1500}
	if fee, ok := d.FeeFor("video"); !ok || fee != 5000 {
		t.Errorf("video fee = %d, %v", fee, ok)
	}
	if fee, ok := d.FeeFor("chat"); !ok || fee != 1500 {
		t.Errorf("chat fee = %d, %v", fee, ok)
	}
	if _, ok := d.FeeFor("telepathy"); ok {
		t.Error("unknown type should not resolve a fee")
	}
}
