package usecase

import (
	"context"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionMeta is recorded with every new session
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, meta SessionMeta) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, meta SessionMeta) (*response.AuthResponse, error)
	Logout(ctx context.Context, sessionToken string) error
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

// Register creates a patient account and logs it in
func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, meta SessionMeta) (*response.AuthResponse, error) {
	user, err := createAccount(ctx, s.repo.User, req.FirstName, req.LastName, req.Email, req.Password, req.Phone, entity.RolePatient)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindStorage {
			s.log.Error("Failed to register user", zap.Error(err), zap.String("email", req.Email))
		}
		return nil, err
	}

	// auto login after register
	resp, err := s.issue(ctx, user, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, meta SessionMeta) (*response.AuthResponse, error) {
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", req.Email))
		return nil, apperror.Storage(err)
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("email", req.Email))
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, apperror.Forbidden("Account is deactivated")
	}

	resp, err := s.issue(ctx, user, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return resp, nil
}

func (s *authService) Logout(ctx context.Context, sessionToken string) error {
	token, err := uuid.Parse(sessionToken)
	if err != nil {
		return apperror.Unauthorized("Invalid session")
	}

	if err := s.repo.Session.Revoke(ctx, token); err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return apperror.Unauthorized("Session already ended")
		}
		return appErr(err)
	}

	s.log.Info("User logged out")
	return nil
}

// ==================== HELPER METHODS ====================

// issue stores a session row and signs a token that points at it
func (s *authService) issue(ctx context.Context, user *entity.User, meta SessionMeta) (*response.AuthResponse, error) {
	now := time.Now()
	expiry := time.Duration(s.config.JWT.ExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Token:     uuid.New(),
		UserAgent: optional(meta.UserAgent),
		IPAddress: optional(meta.IPAddress),
		ExpiresAt: now.Add(expiry),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, appErr(err)
	}

	signed, err := utils.SignSessionToken(s.config.JWT.Secret, user.ID, session.Token, string(user.Role), session.ExpiresAt)
	if err != nil {
		s.log.Error("Failed to sign session token", zap.Error(err))
		return nil, apperror.Wrap(apperror.KindStorage, "failed to issue token", err)
	}

	resp := response.AuthToResponse(user, signed, session.ExpiresAt)
	return &resp, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
