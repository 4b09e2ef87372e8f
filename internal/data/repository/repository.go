package repository

import (
	"clinic-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User        UserRepository
	Session     SessionRepository
	Doctor      DoctorRepository
	Service     ServiceRepository
	Appointment AppointmentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(db, log),
		Session:     NewSessionRepository(db, log),
		Doctor:      NewDoctorRepository(db, log),
		Service:     NewServiceRepository(db, log),
		Appointment: NewAppointmentRepository(db, log),
	}
}
