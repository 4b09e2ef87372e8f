package adaptor

import (
	"net/http"

	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

// DoctorHandler serves the public doctor list and the admin doctor CRUD
type DoctorHandler struct {
	errorWriter
	service usecase.DoctorService
}

func NewDoctorHandler(service usecase.DoctorService, log *zap.Logger, expose bool) *DoctorHandler {
	return &DoctorHandler{
		errorWriter: errorWriter{log: log.With(zap.String("handler", "doctor")), expose: expose},
		service:     service,
	}
}

// List handles GET /api/doctors
func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.service.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "list doctors")
		return
	}
	utils.ResponseSuccess(w, "success", doctors)
}

// Get handles GET /api/doctors/{id}
func (h *DoctorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "doctor")
	if !ok {
		return
	}

	doctor, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err, "get doctor")
		return
	}
	utils.ResponseSuccess(w, "success", doctor)
}

// Create handles POST /api/admin/doctors
func (h *DoctorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.DoctorRequest
	if !bind(w, r, &req) {
		return
	}

	doctor, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err, "create doctor")
		return
	}
	utils.ResponseCreated(w, "Doctor created successfully!", doctor)
}

// Update handles PUT /api/admin/doctors/{id}
func (h *DoctorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "doctor")
	if !ok {
		return
	}

	var req request.DoctorRequest
	if !bind(w, r, &req) {
		return
	}

	doctor, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, r, err, "update doctor")
		return
	}
	utils.ResponseSuccess(w, "Doctor updated successfully!", doctor)
}

// Delete handles DELETE /api/admin/doctors/{id}
func (h *DoctorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "doctor")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err, "delete doctor")
		return
	}
	utils.ResponseSuccess(w, "Doctor deleted successfully!", nil)
}

// OfferingHandler serves clinic services
type OfferingHandler struct {
	errorWriter
	service usecase.OfferingService
}

func NewOfferingHandler(service usecase.OfferingService, log *zap.Logger, expose bool) *OfferingHandler {
	return &OfferingHandler{
		errorWriter: errorWriter{log: log.With(zap.String("handler", "service")), expose: expose},
		service:     service,
	}
}

// List handles GET /api/services
func (h *OfferingHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "list services")
		return
	}
	utils.ResponseSuccess(w, "success", services)
}

// Get handles GET /api/services/{id}
func (h *OfferingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "service")
	if !ok {
		return
	}

	service, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err, "get service")
		return
	}
	utils.ResponseSuccess(w, "success", service)
}

// Create handles POST /api/admin/services
func (h *OfferingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.ServiceRequest
	if !bind(w, r, &req) {
		return
	}

	service, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err, "create service")
		return
	}
	utils.ResponseCreated(w, "Service created successfully!", service)
}

// Update handles PUT /api/admin/services/{id}
func (h *OfferingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "service")
	if !ok {
		return
	}

	var req request.ServiceRequest
	if !bind(w, r, &req) {
		return
	}

	service, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, r, err, "update service")
		return
	}
	utils.ResponseSuccess(w, "Service updated successfully!", service)
}

// Delete handles DELETE /api/admin/services/{id}
func (h *OfferingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "service")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err, "delete service")
		return
	}
	utils.ResponseSuccess(w, "Service deleted successfully!", nil)
}

type CatalogHandler struct {
	errorWriter
	service usecase.CatalogService
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger, expose bool) *CatalogHandler {
	return &CatalogHandler{
		errorWriter: errorWriter{log: log.With(zap.String("handler", "catalog")), expose: expose},
		service:     service,
	}
}

// Get handles GET /api/catalog
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.service.Get(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "get catalog")
		return
	}
	utils.ResponseSuccess(w, "success", catalog)
}
