package usecase

import (
	"context"

	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/response"
	"clinic-booking/pkg/apperror"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CatalogService serves the booking form data in one round trip
type CatalogService interface {
	Get(ctx context.Context) (*response.CatalogResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) Get(ctx context.Context) (*response.CatalogResponse, error) {
	catalog := &response.CatalogResponse{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		doctors, err := s.repo.Doctor.FindAll(gctx)
		if err != nil {
			return err
		}
		catalog.Doctors = response.DoctorsToResponse(doctors)
		return nil
	})

	g.Go(func() error {
		services, err := s.repo.Service.FindAll(gctx)
		if err != nil {
			return err
		}
		catalog.Services = response.ServicesToResponse(services)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.Error("Failed to load catalog", zap.Error(err))
		return nil, apperror.Storage(err)
	}

	return catalog, nil
}
