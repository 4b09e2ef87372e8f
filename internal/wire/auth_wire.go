package wire

import (
	"clinic-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, g guards) {
	r.Route("/api/auth", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.With(g.limit).Post("/register", authHandler.Register)
		r.With(g.limit).Post("/login", authHandler.Login)

		// ==================== PROTECTED ROUTES ====================
		r.With(g.auth).Post("/logout", authHandler.Logout)
	})
}
