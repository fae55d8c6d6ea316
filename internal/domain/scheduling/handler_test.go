package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/telecare/telecare/internal/platform/auth"
)

func newRequest(method, target, body string, actor auth.Actor) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if actor.ID != uuid.Nil {
		req = req.WithContext(auth.WithActor(req.Context(), actor))
	}
	rec := httptest.NewRecorder()
	return e, e.NewContext(req, rec), rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		t.Fatal("expected an *echo.HTTPError, got nil")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}

func bookBody(doctorID uuid.UUID, at string) string {
	return fmt.Sprintf(`{"doctor_id":%q,"scheduled_at":%q,"consultation_type":"video"}`, doctorID.String(), at)
}

func TestHandlerBook(t *testing.T) {
	svc, _, d := newTestService()
	h := NewHandler(svc)
	actor := patientActor()

	body := bookBody(d.ID, "2026-03-02T10:00:00Z")
	_, c, rec := newRequest(http.MethodPost, "/api/v1/appointments", body, actor)
	if err := h.Book(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var appt Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &appt); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if appt.ID == uuid.Nil {
		t.Error("expected an assigned appointment id")
	}
	if appt.PatientID != actor.ID {
		t.Errorf("expected patient id %s, got %s", actor.ID, appt.PatientID)
	}
	if appt.ConsultationFee != 5000 {
		t.Errorf("expected fee 5000, got %d", appt.ConsultationFee)
	}
}

func TestHandlerBook_ErrorStatuses(t *testing.T) {
	svc, _, d := newTestService()
	h := NewHandler(svc)

	if _, err := bookAt(svc, d, mondayMorning(10, 0)); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"slot taken", bookBody(d.ID, "2026-03-02T10:00:00Z"), http.StatusConflict},
		{"outside hours", bookBody(d.ID, "2026-03-02T20:00:00Z"), http.StatusUnprocessableEntity},
		{"lead time", bookBody(d.ID, "2026-03-02T08:15:00Z"), http.StatusUnprocessableEntity},
		{"unknown doctor", bookBody(uuid.New(), "2026-03-02T10:30:00Z"), http.StatusNotFound},
		{"malformed json", `{"doctor_id":`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, c, _ := newRequest(http.MethodPost, "/api/v1/appointments", tc.body, patientActor())
			if got := httpStatus(t, h.Book(c)); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestHandlerGetSlots(t *testing.T) {
	svc, _, d := newTestService()
	h := NewHandler(svc)

	_, c, rec := newRequest(http.MethodGet, "/api/v1/doctors/"+d.ID.String()+"/slots?date=2026-03-02", "", auth.Actor{})
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())
	if err := h.GetSlots(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var slots []Slot
	if err := json.Unmarshal(rec.Body.Bytes(), &slots); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(slots) != 6 {
		t.Errorf("expected 6 slots for a 09:00-12:00 window, got %d", len(slots))
	}
}

func TestHandlerGetSlots_ClosedDayIsEmptyArray(t *testing.T) {
	svc, _, d := newTestService()
	h := NewHandler(svc)

	_, c, rec := newRequest(http.MethodGet, "/api/v1/doctors/"+d.ID.String()+"/slots?date=2026-03-03", "", auth.Actor{})
	c.SetParamNames("id")
	c.SetParamValues(d.ID.String())
	if err := h.GetSlots(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty JSON array, got %s", body)
	}
}

func TestHandlerGetSlots_BadInput(t *testing.T) {
	svc, _, d := newTestService()
	h := NewHandler(svc)

	cases := []struct {
		name  string
		id    string
		query string
		want  int
	}{
		{"missing date", d.ID.String(), "", http.StatusBadRequest},
		{"malformed date", d.ID.String(), "?date=03/02/2026", http.StatusBadRequest},
		{"malformed id", "not-a-uuid", "?date=2026-03-02", http.StatusBadRequest},
		{"unknown doctor", uuid.NewString(), "?date=2026-03-02", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, c, _ := newRequest(http.MethodGet, "/api/v1/doctors/"+tc.id+"/slots"+tc.query, "", auth.Actor{})
			c.SetParamNames("id")
			c.SetParamValues(tc.id)
			if got := httpStatus(t, h.GetSlots(c)); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestHandlerGetAppointment_Forbidden(t *testing.T) {
	svc, _, d := newTestService()
	h := NewHandler(svc)

	appt, err := bookAt(svc, d, mondayMorning(10, 0))
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	_, c, _ := newRequest(http.MethodGet, "/api/v1/appointments/"+appt.ID.String(), "", patientActor())
	c.SetParamNames("id")
	c.SetParamValues(appt.ID.String())
	if got := httpStatus(t, h.GetAppointment(c)); got != http.StatusForbidden {
		t.Errorf("expected 403 for a non-party, got %d", got)
	}
}

func TestHandlerConfirmAndCancel(t *testing.T) {
	svc, _, d := newTestService()
	h := NewHandler(svc)

	appt, err := bookAt(svc, d, mondayMorning(11, 0))
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}
	doctorActor := auth.Actor{ID: d.ID, Role: auth.RoleDoctor}

	_, c, rec := newRequest(http.MethodPost, "/api/v1/appointments/"+appt.ID.String()+"/confirm", "", doctorActor)
	c.SetParamNames("id")
	c.SetParamValues(appt.ID.String())
	if err := h.ConfirmAppointment(c); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	var confirmed Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &confirmed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if confirmed.Status != StatusConfirmed {
		t.Errorf("expected confirmed, got %s", confirmed.Status)
	}

	_, c, rec = newRequest(http.MethodPost, "/api/v1/appointments/"+appt.ID.String()+"/cancel",
		`{"reason":"schedule change"}`, doctorActor)
	c.SetParamNames("id")
	c.SetParamValues(appt.ID.String())
	if err := h.CancelAppointment(c); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	var cancelled Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &cancelled); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}
	if cancelled.CancellationReason == nil || *cancelled.CancellationReason != "schedule change" {
		t.Errorf("expected cancellation reason recorded, got %v", cancelled.CancellationReason)
	}
}

func TestHandlerCancel_TooLate(t *testing.T) {
	svc, _, d := newTestService()
	h := NewHandler(svc)

	appt, err := bookAt(svc, d, mondayMorning(10, 0))
	if err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}
	svc.now = func() time.Time { return mondayMorning(9, 0) }

	_, c, _ := newRequest(http.MethodPost, "/api/v1/appointments/"+appt.ID.String()+"/cancel",
		`{"reason":"changed my mind"}`, auth.Actor{ID: appt.PatientID, Role: auth.RolePatient})
	c.SetParamNames("id")
	c.SetParamValues(appt.ID.String())
	if got := httpStatus(t, h.CancelAppointment(c)); got != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", got)
	}
}

func TestHandlerList(t *testing.T) {
	svc, _, d := newTestService()
	h := NewHandler(svc)
	actor := patientActor()

	if _, err := svc.Book(context.Background(), actor, BookingRequest{
		DoctorID:         d.ID,
		ScheduledAt:      mondayMorning(10, 0),
		ConsultationType: TypeVideo,
	}); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	_, c, rec := newRequest(http.MethodGet, "/api/v1/appointments", "", actor)
	if err := h.ListAppointments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Data  []Appointment `json:"data"`
		Total int           `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Errorf("expected one appointment, got total=%d items=%d", resp.Total, len(resp.Data))
	}

	_, c, _ = newRequest(http.MethodGet, "/api/v1/appointments?when=sometime", "", actor)
	if got := httpStatus(t, h.ListAppointments(c)); got != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad when filter, got %d", got)
	}
}
