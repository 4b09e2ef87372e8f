package usecase

import (
	"context"
	"strings"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DoctorService interface {
	List(ctx context.Context) ([]response.DoctorResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*response.DoctorResponse, error)
	Create(ctx context.Context, req *request.DoctorRequest) (*response.DoctorResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *request.DoctorRequest) (*response.DoctorResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type doctorService struct {
	doctorRepo repository.DoctorRepository
	log        *zap.Logger
}

func NewDoctorService(doctorRepo repository.DoctorRepository, log *zap.Logger) DoctorService {
	return &doctorService{
		doctorRepo: doctorRepo,
		log:        log.With(zap.String("service", "doctor")),
	}
}

func (s *doctorService) List(ctx context.Context) ([]response.DoctorResponse, error) {
	doctors, err := s.doctorRepo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return response.DoctorsToResponse(doctors), nil
}

func (s *doctorService) Get(ctx context.Context, id uuid.UUID) (*response.DoctorResponse, error) {
	doctor, err := s.doctorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if doctor == nil {
		return nil, apperror.NotFound("Doctor")
	}

	resp := response.DoctorToResponse(doctor)
	return &resp, nil
}

func (s *doctorService) Create(ctx context.Context, req *request.DoctorRequest) (*response.DoctorResponse, error) {
	now := time.Now()
	doctor := &entity.Doctor{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	applyDoctorRequest(doctor, req)

	if err := s.doctorRepo.Create(ctx, doctor); err != nil {
		return nil, apperror.Storage(err)
	}

	s.log.Info("Doctor created", zap.String("doctor_id", doctor.ID.String()), zap.String("name", doctor.Name))

	resp := response.DoctorToResponse(doctor)
	return &resp, nil
}

func (s *doctorService) Update(ctx context.Context, id uuid.UUID, req *request.DoctorRequest) (*response.DoctorResponse, error) {
	doctor, err := s.doctorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if doctor == nil {
		return nil, apperror.NotFound("Doctor")
	}

	applyDoctorRequest(doctor, req)
	doctor.UpdatedAt = time.Now()

	affected, err := s.doctorRepo.Update(ctx, doctor)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if affected == 0 {
		return nil, apperror.NotFound("Doctor")
	}

	resp := response.DoctorToResponse(doctor)
	return &resp, nil
}

func (s *doctorService) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.doctorRepo.Delete(ctx, id)
	if err != nil {
		return apperror.Storage(err)
	}
	if affected == 0 {
		return apperror.NotFound("Doctor")
	}

	s.log.Info("Doctor deleted", zap.String("doctor_id", id.String()))
	return nil
}

func applyDoctorRequest(doctor *entity.Doctor, req *request.DoctorRequest) {
	doctor.Name = strings.TrimSpace(req.Name)
	doctor.Specialization = strings.TrimSpace(req.Specialization)
	doctor.Email = req.Email
	doctor.Phone = req.Phone
	doctor.Availability = entity.DefaultAvailability
	if req.Availability != nil && strings.TrimSpace(*req.Availability) != "" {
		doctor.Availability = strings.TrimSpace(*req.Availability)
	}
}
