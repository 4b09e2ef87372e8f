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

const defaultDurationMins = 30

// OfferingService manages the clinic services patients can book
type OfferingService interface {
	List(ctx context.Context) ([]response.ServiceResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*response.ServiceResponse, error)
	Create(ctx context.Context, req *request.ServiceRequest) (*response.ServiceResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *request.ServiceRequest) (*response.ServiceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type offeringService struct {
	serviceRepo repository.ServiceRepository
	log         *zap.Logger
}

func NewOfferingService(serviceRepo repository.ServiceRepository, log *zap.Logger) OfferingService {
	return &offeringService{
		serviceRepo: serviceRepo,
		log:         log.With(zap.String("service", "offering")),
	}
}

func (s *offeringService) List(ctx context.Context) ([]response.ServiceResponse, error) {
	services, err := s.serviceRepo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return response.ServicesToResponse(services), nil
}

func (s *offeringService) Get(ctx context.Context, id uuid.UUID) (*response.ServiceResponse, error) {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if service == nil {
		return nil, apperror.NotFound("Service")
	}

	resp := response.ServiceToResponse(service)
	return &resp, nil
}

func (s *offeringService) Create(ctx context.Context, req *request.ServiceRequest) (*response.ServiceResponse, error) {
	now := time.Now()
	service := &entity.Service{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	applyServiceRequest(service, req)

	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return nil, apperror.Storage(err)
	}

	s.log.Info("Service created", zap.String("service_id", service.ID.String()), zap.String("name", service.Name))

	resp := response.ServiceToResponse(service)
	return &resp, nil
}

func (s *offeringService) Update(ctx context.Context, id uuid.UUID, req *request.ServiceRequest) (*response.ServiceResponse, error) {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if service == nil {
		return nil, apperror.NotFound("Service")
	}

	applyServiceRequest(service, req)
	service.UpdatedAt = time.Now()

	affected, err := s.serviceRepo.Update(ctx, service)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if affected == 0 {
		return nil, apperror.NotFound("Service")
	}

	resp := response.ServiceToResponse(service)
	return &resp, nil
}

func (s *offeringService) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.serviceRepo.Delete(ctx, id)
	if err != nil {
		return apperror.Storage(err)
	}
	if affected == 0 {
		return apperror.NotFound("Service")
	}

	s.log.Info("Service deleted", zap.String("service_id", id.String()))
	return nil
}

func applyServiceRequest(service *entity.Service, req *request.ServiceRequest) {
	service.Name = strings.TrimSpace(req.Name)
	service.Description = req.Description
	service.Price = req.Price
	service.DurationMins = req.DurationMins
	if service.DurationMins == 0 {
		service.DurationMins = defaultDurationMins
	}
}
