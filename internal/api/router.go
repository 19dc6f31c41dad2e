package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/donatio/aidmatch/internal/fulfillment"
	"github.com/donatio/aidmatch/internal/repository"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(
	catalog *repository.Catalog,
	requests repository.RequestStore,
	donations repository.DonationStore,
	fulfillmentSvc *fulfillment.Service,
) http.Handler {
	h := &Handlers{
		catalog:        catalog,
		requests:       requests,
		donations:      donations,
		fulfillmentSvc: fulfillmentSvc,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api/v1", func(r chi.Router) {
		// Catalog.
		r.Get("/institutions", h.ListInstitutions)
		r.Get("/shops", h.ListShops)

		// Requests.
		r.Get("/requests", h.ListRequests)
		r.Post("/requests", h.CreateRequest)

		// Donations.
		r.Get("/donations", h.ListDonations)
		r.Post("/donations", h.CreateDonation)

		// Dashboard.
		r.Get("/dashboard", h.GetDashboard)
	})

	return r
}
