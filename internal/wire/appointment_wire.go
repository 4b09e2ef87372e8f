package wire

import (
	"clinic-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAppointment(r chi.Router, h *adaptor.AppointmentHandler, g guards) {
	r.Route("/api/appointments", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.With(g.limit).Get("/booked-slots", h.BookedSlots)
		r.With(g.limit).Get("/available-slots", h.AvailableSlots)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(g.auth)

			r.Post("/", h.Book)
			r.Get("/my", h.ListMine)
			r.Get("/{id}", h.Get)
			r.Put("/{id}/cancel", h.Cancel) // owner or staff, checked by the state machine

			// ==================== STAFF ROUTES ====================
			r.Group(func(r chi.Router) {
				r.Use(g.staff)

				r.Get("/", h.ListAll)
				r.Get("/month", h.ListByMonth) // ?month=11&year=2026
				r.Put("/{id}/status", h.UpdateStatus)
				r.Put("/{id}/confirm", h.Confirm)
				r.Put("/{id}/decline", h.Decline)
				r.Put("/{id}/paid", h.MarkPaid)
				r.Put("/{id}/payment", h.UpdatePayment)
			})

			// ==================== ADMIN ROUTES ====================
			r.With(g.admin).Delete("/{id}", h.Delete)
		})
	})
}
