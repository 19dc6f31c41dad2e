package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/donatio/aidmatch/internal/domain"
	"github.com/donatio/aidmatch/internal/fulfillment"
	"github.com/donatio/aidmatch/internal/repository"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	catalog        *repository.Catalog
	requests       repository.RequestStore
	donations      repository.DonationStore
	fulfillmentSvc *fulfillment.Service
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps workflow errors onto HTTP statuses: validation
// problems are 400s, dangling references 404s, anything unexpected a generic
// 400 processing error.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *fulfillment.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Message)
		return
	}
	var nfe *fulfillment.NotFoundError
	if errors.As(err, &nfe) {
		writeError(w, http.StatusNotFound, nfe.Message)
		return
	}
	log.Printf("[api] processing error: %v", err)
	writeError(w, http.StatusBadRequest, "Error processing donation: "+err.Error())
}

// --- catalog ---

func (h *Handlers) ListInstitutions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Institutions())
}

func (h *Handlers) ListShops(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Shops())
}

// --- requests ---

func (h *Handlers) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requests.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if requests == nil {
		requests = []domain.Request{}
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *Handlers) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var in fulfillment.CreateRequestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	req, check, err := h.fulfillmentSvc.CreateRequest(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"request":       req,
		"anomaly_check": check,
	})
}

// --- donations ---

func (h *Handlers) ListDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := h.donations.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if donations == nil {
		donations = []domain.Donation{}
	}
	writeJSON(w, http.StatusOK, donations)
}

func (h *Handlers) CreateDonation(w http.ResponseWriter, r *http.Request) {
	var in fulfillment.CreateDonationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	donation, updated, err := h.fulfillmentSvc.CreateDonation(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"donation":        donation,
		"updated_request": updated,
	})
}

// --- dashboard ---

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requests.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	donations, err := h.donations.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var open, fulfilled, kgRequested, kgFulfilled int
	for _, req := range requests {
		if req.Status == domain.StatusFulfilled {
			fulfilled++
		} else {
			open++
		}
		kgRequested += req.Quantity
		kgFulfilled += req.FulfilledQuantity
	}

	var money, directItem, amountDonated int
	for _, d := range donations {
		switch d.Type {
		case domain.DonationMoney:
			money++
			amountDonated += d.Amount
		case domain.DonationDirectItem:
			directItem++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"requests": map[string]int{
			"total":     len(requests),
			"open":      open,
			"fulfilled": fulfilled,
		},
		"donations": map[string]int{
			"total":       len(donations),
			"money":       money,
			"direct_item": directItem,
		},
		"volume": map[string]int{
			"kg_requested":   kgRequested,
			"kg_fulfilled":   kgFulfilled,
			"amount_donated": amountDonated,
		},
		"institutions": len(h.catalog.Institutions()),
		"shops":        len(h.catalog.Shops()),
	})
}
