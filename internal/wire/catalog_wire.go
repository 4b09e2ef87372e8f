package wire

import (
	"clinic-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireCatalog registers the public doctor and service listings
func wireCatalog(
	r chi.Router,
	doctorHandler *adaptor.DoctorHandler,
	offeringHandler *adaptor.OfferingHandler,
	catalogHandler *adaptor.CatalogHandler,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/doctors", doctorHandler.List)
	r.Get("/api/doctors/{id}", doctorHandler.Get)
	r.Get("/api/services", offeringHandler.List)
	r.Get("/api/services/{id}", offeringHandler.Get)
	r.Get("/api/catalog", catalogHandler.Get)
}
