package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-booking/internal/booking"
	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errorWriter maps use case errors onto the response envelope
type errorWriter struct {
	log    *zap.Logger
	expose bool
}

// handleServiceError writes the status of the error kind. Storage failures
// are logged and hidden behind a generic message unless exposing is enabled.
func (e errorWriter) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Storage(err)
	}

	code := appErr.Kind.HTTPStatus()
	message := appErr.Message

	switch code {
	case http.StatusInternalServerError:
		e.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("request_id", utils.GetRequestIDFromContext(r.Context())))
		message = "Internal server error"
		if e.expose {
			message = err.Error()
		}

	case http.StatusForbidden, http.StatusConflict:
		e.log.Warn(operation+" failed",
			zap.String("kind", appErr.Kind.String()),
			zap.String("reason", appErr.Message))
	}

	utils.ResponseJSON(w, code, false, message, nil, nil)
}

// bind decodes the JSON body into req and validates it, writing the 400 itself
func bind(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+resource+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

func currentActor(w http.ResponseWriter, r *http.Request) (booking.Actor, bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return booking.Actor{}, false
	}
	role, _ := utils.GetRoleFromContext(r.Context())
	return booking.Actor{UserID: userID, Role: entity.UserRole(role)}, true
}
