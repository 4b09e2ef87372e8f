package wire

import (
	"clinic-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireAdmin configures the dashboard routes, all behind authentication and the admin role
func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	doctorHandler *adaptor.DoctorHandler,
	offeringHandler *adaptor.OfferingHandler,
	g guards,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(g.auth)
		r.Use(g.admin)

		r.Get("/stats", adminHandler.Stats)

		r.Get("/users", adminHandler.ListUsers) // ?page=1&per_page=10
		r.Post("/staff", adminHandler.CreateStaff)
		r.Put("/users/{id}/role", adminHandler.UpdateRole)
		r.Delete("/users/{id}", adminHandler.DeleteUser)

		r.Post("/doctors", doctorHandler.Create)
		r.Put("/doctors/{id}", doctorHandler.Update)
		r.Delete("/doctors/{id}", doctorHandler.Delete)

		r.Post("/services", offeringHandler.Create)
		r.Put("/services/{id}", offeringHandler.Update)
		r.Delete("/services/{id}", offeringHandler.Delete)
	})
}
