package adaptor

import (
	"net"
	"net/http"

	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	errorWriter
	service usecase.AuthService
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger, expose bool) *AuthHandler {
	return &AuthHandler{
		errorWriter: errorWriter{log: log.With(zap.String("handler", "auth")), expose: expose},
		service:     service,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !bind(w, r, &req) {
		return
	}

	response, err := h.service.Register(r.Context(), &req, sessionMeta(r))
	if err != nil {
		h.handleServiceError(w, r, err, "register")
		return
	}

	utils.ResponseCreated(w, "User registered successfully!", response)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !bind(w, r, &req) {
		return
	}

	response, err := h.service.Login(r.Context(), &req, sessionMeta(r))
	if err != nil {
		h.handleServiceError(w, r, err, "login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", response)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// session was resolved by AuthSession
	session, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), session); err != nil {
		h.handleServiceError(w, r, err, "logout")
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}

func sessionMeta(r *http.Request) usecase.SessionMeta {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return usecase.SessionMeta{
		UserAgent: r.UserAgent(),
		IPAddress: ip,
	}
}
