package adaptor

import (
	"net/http"

	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

type AppointmentHandler struct {
	errorWriter
	service usecase.AppointmentService
}

func NewAppointmentHandler(service usecase.AppointmentService, log *zap.Logger, expose bool) *AppointmentHandler {
	return &AppointmentHandler{
		errorWriter: errorWriter{log: log.With(zap.String("handler", "appointment")), expose: expose},
		service:     service,
	}
}

// Book handles POST /api/appointments
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateAppointmentRequest
	if !bind(w, r, &req) {
		return
	}

	created, err := h.service.Book(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, r, err, "book appointment")
		return
	}

	utils.ResponseCreated(w, "Appointment booked successfully!", created)
}

// ListMine handles GET /api/appointments/my
func (h *AppointmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	appointments, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, r, err, "list own appointments")
		return
	}

	utils.ResponseSuccess(w, "success", appointments)
}

// BookedSlots handles GET /api/appointments/booked-slots?doctor_id=&date= (public)
func (h *AppointmentHandler) BookedSlots(w http.ResponseWriter, r *http.Request) {
	query, ok := slotQuery(w, r)
	if !ok {
		return
	}

	slots, err := h.service.BookedSlots(r.Context(), query)
	if err != nil {
		h.handleServiceError(w, r, err, "get booked slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// AvailableSlots handles GET /api/appointments/available-slots?doctor_id=&date= (public)
func (h *AppointmentHandler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	query, ok := slotQuery(w, r)
	if !ok {
		return
	}

	slots, err := h.service.AvailableSlots(r.Context(), query)
	if err != nil {
		h.handleServiceError(w, r, err, "get available slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

func slotQuery(w http.ResponseWriter, r *http.Request) (*request.SlotQuery, bool) {
	query := &request.SlotQuery{
		DoctorID: r.URL.Query().Get("doctor_id"),
		Date:     r.URL.Query().Get("date"),
	}
	if validationErrors := utils.ValidateStruct(query); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Doctor ID and date are required.", validationErrors)
		return nil, false
	}
	return query, true
}

// ListAll handles GET /api/appointments (staff)
func (h *AppointmentHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.service.ListAll(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "list appointments")
		return
	}

	utils.ResponseSuccess(w, "success", appointments)
}

// ListByMonth handles GET /api/appointments/month?month=&year= (staff)
func (h *AppointmentHandler) ListByMonth(w http.ResponseWriter, r *http.Request) {
	query := &request.MonthQuery{
		Month: utils.ParseInt(r.URL.Query().Get("month"), 0),
		Year:  utils.ParseInt(r.URL.Query().Get("year"), 0),
	}
	if validationErrors := utils.ValidateStruct(query); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Month and year are required.", validationErrors)
		return
	}

	appointments, err := h.service.ListByMonth(r.Context(), query)
	if err != nil {
		h.handleServiceError(w, r, err, "list appointments by month")
		return
	}

	utils.ResponseSuccess(w, "success", appointments)
}

// Get handles GET /api/appointments/{id}
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	appointment, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		h.handleServiceError(w, r, err, "get appointment")
		return
	}

	utils.ResponseSuccess(w, "success", appointment)
}

// UpdateStatus handles PUT /api/appointments/{id}/status
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	var req request.UpdateStatusRequest
	if !bind(w, r, &req) {
		return
	}

	if err := h.service.UpdateStatus(r.Context(), actor, id, &req); err != nil {
		h.handleServiceError(w, r, err, "update appointment status")
		return
	}

	utils.ResponseSuccess(w, "Appointment status updated successfully!", nil)
}

// Confirm handles PUT /api/appointments/{id}/confirm
func (h *AppointmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	if err := h.service.Confirm(r.Context(), actor, id); err != nil {
		h.handleServiceError(w, r, err, "confirm appointment")
		return
	}

	utils.ResponseSuccess(w, "Appointment confirmed successfully!", nil)
}

// Cancel handles PUT /api/appointments/{id}/cancel
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	if err := h.service.Cancel(r.Context(), actor, id); err != nil {
		h.handleServiceError(w, r, err, "cancel appointment")
		return
	}

	utils.ResponseSuccess(w, "Appointment cancelled successfully!", nil)
}

// Decline handles PUT /api/appointments/{id}/decline
func (h *AppointmentHandler) Decline(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	var req request.DeclineRequest
	if !bind(w, r, &req) {
		return
	}

	if err := h.service.Decline(r.Context(), actor, id, &req); err != nil {
		h.handleServiceError(w, r, err, "decline appointment")
		return
	}

	utils.ResponseSuccess(w, "Appointment declined successfully!", nil)
}

// MarkPaid handles PUT /api/appointments/{id}/paid
func (h *AppointmentHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	if err := h.service.MarkPaid(r.Context(), actor, id); err != nil {
		h.handleServiceError(w, r, err, "mark appointment paid")
		return
	}

	utils.ResponseSuccess(w, "Payment marked as paid successfully!", nil)
}

// UpdatePayment handles PUT /api/appointments/{id}/payment
func (h *AppointmentHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	var req request.UpdatePaymentRequest
	if !bind(w, r, &req) {
		return
	}

	if err := h.service.UpdatePayment(r.Context(), actor, id, &req); err != nil {
		h.handleServiceError(w, r, err, "update payment status")
		return
	}

	utils.ResponseSuccess(w, "Payment status updated successfully!", nil)
}

// Delete handles DELETE /api/appointments/{id} (admin)
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		h.handleServiceError(w, r, err, "delete appointment")
		return
	}

	utils.ResponseSuccess(w, "Appointment deleted successfully!", nil)
}
