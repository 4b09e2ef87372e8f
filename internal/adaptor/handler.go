package adaptor

import (
	"clinic-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Admin       *AdminHandler
	Doctor      *DoctorHandler
	Offering    *OfferingHandler
	Catalog     *CatalogHandler
	Appointment *AppointmentHandler
}

// NewHandler builds every handler. expose passes storage error messages to clients.
func NewHandler(service *usecase.Service, log *zap.Logger, expose bool) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(service.Auth, log, expose),
		User:        NewUserHandler(service.User, log, expose),
		Admin:       NewAdminHandler(service.Admin, log, expose),
		Doctor:      NewDoctorHandler(service.Doctor, log, expose),
		Offering:    NewOfferingHandler(service.Offering, log, expose),
		Catalog:     NewCatalogHandler(service.Catalog, log, expose),
		Appointment: NewAppointmentHandler(service.Appointment, log, expose),
	}
}
