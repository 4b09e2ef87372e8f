package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinic-booking/internal/booking"
	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubAppointments answers every call with err, or a canned value when err is nil
type stubAppointments struct {
	err       error
	gotActor  booking.Actor
	gotBook   *request.CreateAppointmentRequest
	gotSlots  *request.SlotQuery
	gotReason string
}

func (s *stubAppointments) Book(ctx context.Context, patientID uuid.UUID, req *request.CreateAppointmentRequest) (*response.CreateAppointmentResponse, error) {
	s.gotBook = req
	if s.err != nil {
		return nil, s.err
	}
	return &response.CreateAppointmentResponse{AppointmentID: "a1"}, nil
}

func (s *stubAppointments) ListMine(ctx context.Context, patientID uuid.UUID) ([]response.AppointmentResponse, error) {
	return []response.AppointmentResponse{}, s.err
}

func (s *stubAppointments) Get(ctx context.Context, actor booking.Actor, id uuid.UUID) (*response.AppointmentResponse, error) {
	s.gotActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return &response.AppointmentResponse{ID: id.String()}, nil
}

func (s *stubAppointments) Cancel(ctx context.Context, actor booking.Actor, id uuid.UUID) error {
	s.gotActor = actor
	return s.err
}

func (s *stubAppointments) BookedSlots(ctx context.Context, req *request.SlotQuery) (*response.BookedSlotsResponse, error) {
	s.gotSlots = req
	return &response.BookedSlotsResponse{BookedSlots: []string{"10:00:00"}}, s.err
}

func (s *stubAppointments) AvailableSlots(ctx context.Context, req *request.SlotQuery) (*response.AvailableSlotsResponse, error) {
	s.gotSlots = req
	return &response.AvailableSlotsResponse{}, s.err
}

func (s *stubAppointments) ListAll(ctx context.Context) ([]response.AppointmentResponse, error) {
	return nil, s.err
}

func (s *stubAppointments) ListByMonth(ctx context.Context, req *request.MonthQuery) ([]response.AppointmentResponse, error) {
	return nil, s.err
}

func (s *stubAppointments) Confirm(ctx context.Context, actor booking.Actor, id uuid.UUID) error {
	return s.err
}

func (s *stubAppointments) Decline(ctx context.Context, actor booking.Actor, id uuid.UUID, req *request.DeclineRequest) error {
	s.gotReason = req.DeclineMessage
	return s.err
}

func (s *stubAppointments) UpdateStatus(ctx context.Context, actor booking.Actor, id uuid.UUID, req *request.UpdateStatusRequest) error {
	return s.err
}

func (s *stubAppointments) MarkPaid(ctx context.Context, actor booking.Actor, id uuid.UUID) error {
	return s.err
}

func (s *stubAppointments) UpdatePayment(ctx context.Context, actor booking.Actor, id uuid.UUID, req *request.UpdatePaymentRequest) error {
	return s.err
}

func (s *stubAppointments) Delete(ctx context.Context, actor booking.Actor, id uuid.UUID) error {
	return s.err
}

func (s *stubAppointments) CompletePast(ctx context.Context, before time.Time) (int64, error) {
	return 0, s.err
}

func newAppointmentRouter(svc *stubAppointments, expose bool) http.Handler {
	h := NewAppointmentHandler(svc, zap.NewNop(), expose)
	r := chi.NewRouter()
	r.Post("/api/appointments", h.Book)
	r.Get("/api/appointments/booked-slots", h.BookedSlots)
	r.Get("/api/appointments/month", h.ListByMonth)
	r.Get("/api/appointments/{id}", h.Get)
	r.Put("/api/appointments/{id}/cancel", h.Cancel)
	r.Put("/api/appointments/{id}/decline", h.Decline)
	r.Put("/api/appointments/{id}/status", h.UpdateStatus)
	return r
}

func serve(t *testing.T, handler http.Handler, method, target, body string, role entity.UserRole) (*httptest.ResponseRecorder, utils.Response) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if role != "" {
		req = req.WithContext(utils.SetUserContext(req.Context(), uuid.New(), string(role)))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var envelope utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

const validBooking = `{"doctor_id":"6f1c1f5e-5d59-4d3b-9a43-0d0e7d1c2b11","service_id":"0b6b9d9e-1a2b-4c3d-8e9f-001122334455","appointment_date":"2026-11-02","appointment_time":"10:00"}`

func TestBookCreated(t *testing.T) {
	svc := &stubAppointments{}
	rec, body := serve(t, newAppointmentRouter(svc, false), http.MethodPost, "/api/appointments", validBooking, entity.RolePatient)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, body.Status)
	assert.Equal(t, "Appointment booked successfully!", body.Message)
	assert.Equal(t, map[string]any{"appointmentId": "a1"}, body.Data)
	assert.Equal(t, "10:00", svc.gotBook.AppointmentTime)
}

func TestBookValidation(t *testing.T) {
	svc := &stubAppointments{}
	router := newAppointmentRouter(svc, false)

	rec, body := serve(t, router, http.MethodPost, "/api/appointments", `{"doctor_id":"x"}`, entity.RolePatient)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", body.Message)
	errs := body.Errors.(map[string]any)
	assert.Contains(t, errs, "doctor_id")
	assert.Contains(t, errs, "appointment_time")
	assert.Nil(t, svc.gotBook)

	rec, body = serve(t, router, http.MethodPost, "/api/appointments", `not json`, entity.RolePatient)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", body.Message)
}

func TestBookRequiresIdentity(t *testing.T) {
	rec, _ := serve(t, newAppointmentRouter(&stubAppointments{}, false), http.MethodPost, "/api/appointments", validBooking, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		expose  bool
		code    int
		message string
	}{
		{name: "daily limit", err: apperror.DailyLimitExceeded(5), code: http.StatusBadRequest, message: "You have reached the maximum limit of 5 appointments per day."},
		{name: "slot taken", err: apperror.SlotUnavailable(), code: http.StatusBadRequest, message: "This time slot is already booked. Please select another time."},
		{name: "missing doctor", err: apperror.NotFound("Doctor"), code: http.StatusNotFound, message: "Doctor not found"},
		{name: "conflict", err: apperror.Conflict("modified"), code: http.StatusConflict, message: "modified"},
		{name: "forbidden", err: apperror.Forbidden("Access denied."), code: http.StatusForbidden, message: "Access denied."},
		{name: "unauthorized", err: apperror.Unauthorized("Session expired"), code: http.StatusUnauthorized, message: "Session expired"},
		{name: "invalid transition", err: apperror.InvalidTransition("Cannot confirm an appointment that is cancelled."), code: http.StatusBadRequest, message: "Cannot confirm an appointment that is cancelled."},
		{name: "storage hidden", err: errors.New("pq: connection reset"), code: http.StatusInternalServerError, message: "Internal server error"},
		{name: "storage exposed", err: apperror.Storage(errors.New("connection reset")), expose: true, code: http.StatusInternalServerError, message: "storage failure: connection reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAppointmentRouter(&stubAppointments{err: tt.err}, tt.expose)
			rec, body := serve(t, router, http.MethodPost, "/api/appointments", validBooking, entity.RolePatient)

			assert.Equal(t, tt.code, rec.Code)
			assert.False(t, body.Status)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestUpdateStatusSlotTaken(t *testing.T) {
	router := newAppointmentRouter(&stubAppointments{err: apperror.SlotUnavailable()}, false)

	rec, body := serve(t, router, http.MethodPut, "/api/appointments/"+uuid.NewString()+"/status", `{"status":"pending"}`, entity.RoleStaff)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "This time slot is already booked. Please select another time.", body.Message)
}

func TestBookedSlotsQuery(t *testing.T) {
	svc := &stubAppointments{}
	router := newAppointmentRouter(svc, false)

	rec, _ := serve(t, router, http.MethodGet, "/api/appointments/booked-slots?date=2026-11-02", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.gotSlots)

	doctorID := uuid.NewString()
	rec, body := serve(t, router, http.MethodGet, "/api/appointments/booked-slots?doctor_id="+doctorID+"&date=2026-11-02", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"bookedSlots": []any{"10:00:00"}}, body.Data)
	assert.Equal(t, doctorID, svc.gotSlots.DoctorID)
}

func TestListByMonthRequiresParams(t *testing.T) {
	rec, body := serve(t, newAppointmentRouter(&stubAppointments{}, false), http.MethodGet, "/api/appointments/month?month=13&year=2026", "", entity.RoleStaff)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body.Errors.(map[string]any), "month")
}

func TestGetPassesActorAndParsesID(t *testing.T) {
	svc := &stubAppointments{}
	router := newAppointmentRouter(svc, false)

	rec, _ := serve(t, router, http.MethodGet, "/api/appointments/not-a-uuid", "", entity.RoleStaff)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	id := uuid.NewString()
	rec, body := serve(t, router, http.MethodGet, "/api/appointments/"+id, "", entity.RoleStaff)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, body.Data.(map[string]any)["id"])
	assert.Equal(t, entity.RoleStaff, svc.gotActor.Role)
}

func TestCancelForbidden(t *testing.T) {
	svc := &stubAppointments{err: apperror.Forbidden("You can only cancel your own appointments.")}
	rec, body := serve(t, newAppointmentRouter(svc, false), http.MethodPut, "/api/appointments/"+uuid.NewString()+"/cancel", "", entity.RolePatient)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You can only cancel your own appointments.", body.Message)
}

func TestDeclinePassesReason(t *testing.T) {
	svc := &stubAppointments{}
	rec, body := serve(t, newAppointmentRouter(svc, false), http.MethodPut, "/api/appointments/"+uuid.NewString()+"/decline", `{"decline_message":"Doctor away"}`, entity.RoleStaff)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Appointment declined successfully!", body.Message)
	assert.Equal(t, "Doctor away", svc.gotReason)
}
