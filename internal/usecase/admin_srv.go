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
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AdminService interface {
	Stats(ctx context.Context) (*response.StatsResponse, error)
	ListUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	CreateStaff(ctx context.Context, req *request.CreateStaffRequest) (*response.UserResponse, error)
	UpdateRole(ctx context.Context, actorID, userID uuid.UUID, role string) error
	DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error
}

type adminService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAdminService(repo *repository.Repository, log *zap.Logger) AdminService {
	return &adminService{
		repo: repo,
		log:  log.With(zap.String("service", "admin")),
	}
}

// Stats gathers the dashboard counters concurrently
func (s *adminService) Stats(ctx context.Context) (*response.StatsResponse, error) {
	var stats response.StatsResponse
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalUsers, err = s.repo.User.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalPatients, err = s.repo.User.CountByRole(gctx, entity.RolePatient)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalStaff, err = s.repo.User.CountByRole(gctx, entity.RoleStaff)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalAdmins, err = s.repo.User.CountByRole(gctx, entity.RoleAdmin)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalAppointments, err = s.repo.Appointment.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingAppointments, err = s.repo.Appointment.CountByStatus(gctx, entity.AppointmentPending)
		return err
	})
	g.Go(func() (err error) {
		stats.ConfirmedAppointments, err = s.repo.Appointment.CountByStatus(gctx, entity.AppointmentConfirmed)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalDoctors, err = s.repo.Doctor.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalServices, err = s.repo.Service.CountAll(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error("Failed to gather dashboard stats", zap.Error(err))
		return nil, apperror.Storage(err)
	}

	return &stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if req.Page < 1 {
		req.Page = 1
	}
	perPage := req.Limit()

	users, err := s.repo.User.FindAll(ctx, perPage, req.Offset())
	if err != nil {
		return nil, apperror.Storage(err)
	}

	total, err := s.repo.User.CountAll(ctx)
	if err != nil {
		return nil, apperror.Storage(err)
	}

	data := make([]response.UserResponse, 0, len(users))
	for _, u := range users {
		data = append(data, response.UserToResponse(u))
	}

	return response.NewPaginatedResponse(data, req.Page, perPage, total), nil
}

func (s *adminService) CreateStaff(ctx context.Context, req *request.CreateStaffRequest) (*response.UserResponse, error) {
	role := entity.UserRole(req.Role)
	if !role.IsStaff() {
		return nil, apperror.InvalidInput("Role must be staff or admin")
	}

	user, err := createAccount(ctx, s.repo.User, req.FirstName, req.LastName, req.Email, req.Password, req.Phone, role)
	if err != nil {
		return nil, err
	}

	s.log.Info("Staff account created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *adminService) UpdateRole(ctx context.Context, actorID, userID uuid.UUID, role string) error {
	newRole := entity.UserRole(role)
	if !newRole.Valid() {
		return apperror.InvalidInput("Invalid role")
	}
	if actorID == userID && newRole != entity.RoleAdmin {
		return apperror.InvalidInput("You cannot remove your own admin role")
	}

	if err := s.repo.User.UpdateRole(ctx, userID, newRole); err != nil {
		return appErr(err)
	}

	s.log.Info("User role updated",
		zap.String("actor_id", actorID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", role))
	return nil
}

func (s *adminService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return apperror.InvalidInput("You cannot delete your own account")
	}

	if err := s.repo.User.Delete(ctx, userID); err != nil {
		return appErr(err)
	}

	revoked, err := s.repo.Session.RevokeAllUserSessions(ctx, userID)
	if err != nil {
		s.log.Warn("Failed to revoke sessions of deleted user", zap.Error(err), zap.String("user_id", userID.String()))
	}

	s.log.Info("User deleted",
		zap.String("actor_id", actorID.String()),
		zap.String("user_id", userID.String()),
		zap.Int64("sessions_revoked", revoked))
	return nil
}

// createAccount is shared by staff creation and the create-admin command
func createAccount(ctx context.Context, users repository.UserRepository, firstName, lastName, email, password string, phone *string, role entity.UserRole) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if existing != nil {
		return nil, apperror.Conflict("Email already registered")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperror.InvalidInput("Password must be at least 6 characters")
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Email:        email,
		PasswordHash: hashed,
		Phone:        phone,
		Role:         role,
		IsActive:     true,
	}

	if err := users.Create(ctx, user); err != nil {
		return nil, appErr(err)
	}
	return user, nil
}

// CreateAdmin bootstraps an admin account outside of HTTP
func CreateAdmin(ctx context.Context, users repository.UserRepository, firstName, lastName, email, password string) (*entity.User, error) {
	return createAccount(ctx, users, firstName, lastName, email, password, nil, entity.RoleAdmin)
}
