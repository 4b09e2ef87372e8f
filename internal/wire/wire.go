// internal/wire/wire.go
package wire

import (
	"net/http"
	"time"

	"clinic-booking/internal/adaptor"
	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/cache"
	"clinic-booking/pkg/metrics"
	"clinic-booking/pkg/middleware"
	"clinic-booking/pkg/notify"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// App holds the router and the long-lived pieces the server needs to manage
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
	Limiter *middleware.RateLimiter
}

// guards are the access middlewares shared by every route group
type guards struct {
	auth  func(http.Handler) http.Handler
	staff func(http.Handler) http.Handler
	admin func(http.Handler) http.Handler
	limit func(http.Handler) http.Handler
}

// Wiring initializes services, handlers and routes
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	slotCache cache.SlotCache,
	m *metrics.Metrics,
	notifier notify.Notifier,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, slotCache, m, notifier, logger)
	handler := adaptor.NewHandler(service, logger, config.App.ExposeErrors)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(config.RateLimit.RPS),
		Burst: config.RateLimit.Burst,
		TTL:   10 * time.Minute,
	}, logger)

	g := guards{
		auth:  middleware.AuthSession(config.JWT.Secret, repo.Session, repo.User, logger),
		staff: middleware.RequireRoles(logger, entity.RoleStaff, entity.RoleAdmin),
		admin: middleware.RequireRoles(logger, entity.RoleAdmin),
		limit: limiter.Handler,
	}

	router := setupRouter(handler, g, config, m, logger)

	return &App{
		Router:  router,
		Service: service,
		Limiter: limiter,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	g guards,
	config *utils.Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(config.App.AllowedOrigins)))
	r.Use(middleware.Metrics(m))

	// Apply routes
	wireAuth(r, handler.Auth, g)
	wireUser(r, handler.User, g)
	wireCatalog(r, handler.Doctor, handler.Offering, handler.Catalog)
	wireAppointment(r, handler.Appointment, g)
	wireAdmin(r, handler.Admin, handler.Doctor, handler.Offering, g)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	return r
}
