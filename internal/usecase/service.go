package usecase

import (
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/cache"
	"clinic-booking/pkg/metrics"
	"clinic-booking/pkg/notify"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	User        UserService
	Admin       AdminService
	Doctor      DoctorService
	Offering    OfferingService
	Catalog     CatalogService
	Appointment AppointmentService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	slotCache cache.SlotCache,
	m *metrics.Metrics,
	notifier notify.Notifier,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:        NewAuthService(repo, config, log),
		User:        NewUserService(repo.User, log),
		Admin:       NewAdminService(repo, log),
		Doctor:      NewDoctorService(repo.Doctor, log),
		Offering:    NewOfferingService(repo.Service, log),
		Catalog:     NewCatalogService(repo, log),
		Appointment: NewAppointmentService(repo, config.Booking, slotCache, m, notifier, log),
	}
}
