package adaptor

import (
	"net/http"

	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

type AdminHandler struct {
	errorWriter
	service usecase.AdminService
}

func NewAdminHandler(service usecase.AdminService, log *zap.Logger, expose bool) *AdminHandler {
	return &AdminHandler{
		errorWriter: errorWriter{log: log.With(zap.String("handler", "admin")), expose: expose},
		service:     service,
	}
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "get stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	// Validate per_page max
	if req.PerPage > 100 {
		req.PerPage = 100
	}

	users, err := h.service.ListUsers(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// CreateStaff handles POST /api/admin/staff
func (h *AdminHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req request.CreateStaffRequest
	if !bind(w, r, &req) {
		return
	}

	user, err := h.service.CreateStaff(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err, "create staff")
		return
	}

	utils.ResponseCreated(w, req.Role+" account created successfully!", user)
}

// UpdateRole handles PUT /api/admin/users/{id}/role
func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	var req request.UpdateRoleRequest
	if !bind(w, r, &req) {
		return
	}

	if err := h.service.UpdateRole(r.Context(), actorID, userID, req.Role); err != nil {
		h.handleServiceError(w, r, err, "update role")
		return
	}

	utils.ResponseSuccess(w, "User role updated successfully!", nil)
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), actorID, userID); err != nil {
		h.handleServiceError(w, r, err, "delete user")
		return
	}

	utils.ResponseSuccess(w, "User deleted successfully!", nil)
}
