// Package fulfillment runs the request and donation workflow: payload
// validation, the model-assisted decision points, and the fulfillment
// bookkeeping on the request ledger.
package fulfillment

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/donatio/aidmatch/internal/advisor"
	"github.com/donatio/aidmatch/internal/domain"
	"github.com/donatio/aidmatch/internal/repository"
)

// Service owns all mutations of the request and donation ledgers.
type Service struct {
	requests  repository.RequestStore
	donations repository.DonationStore
	catalog   *repository.Catalog
	advisor   *advisor.Service

	// Donation processing is serialized per request so two concurrent
	// donations cannot both read the same fulfilled_quantity.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(
	requests repository.RequestStore,
	donations repository.DonationStore,
	catalog *repository.Catalog,
	adv *advisor.Service,
) *Service {
	return &Service{
		requests:  requests,
		donations: donations,
		catalog:   catalog,
		advisor:   adv,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (s *Service) requestLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

// CreateRequest validates the payload, scores it for anomalies and appends it
// to the ledger. A high risk score is informational and never blocks
// creation.
func (s *Service) CreateRequest(ctx context.Context, in CreateRequestInput) (*domain.Request, *domain.AnomalyCheck, error) {
	if in.InstitutionID == "" || in.Item == "" || in.Quantity == nil || in.EstimatedCost == nil {
		return nil, nil, &ValidationError{Message: "Missing required fields"}
	}

	req := &domain.Request{
		ID:                uuid.NewString(),
		InstitutionID:     in.InstitutionID,
		Item:              in.Item,
		Quantity:          int(*in.Quantity),
		EstimatedCost:     int(*in.EstimatedCost),
		FulfilledQuantity: 0,
		Status:            domain.StatusOpen,
		CreatedAt:         time.Now().UTC(),
	}

	// Scored before insertion so the history the model sees excludes the
	// request under review.
	check := s.advisor.CheckAnomaly(ctx, in.InstitutionID, in.Item, req.Quantity)

	if err := s.requests.Insert(req); err != nil {
		return nil, nil, fmt.Errorf("insert request: %w", err)
	}

	log.Printf("[fulfillment] created request %s: %d kg %s for %s (risk %d)",
		req.ID, req.Quantity, req.Item, req.InstitutionID, check.RiskScore)

	return req, check, nil
}

// CreateDonation applies a donor contribution against a request. Precondition
// failures surface as validation or not-found errors before any state
// changes; the ledger mutations happen only after every fallible step has
// succeeded, under the per-request lock.
func (s *Service) CreateDonation(ctx context.Context, in CreateDonationInput) (*domain.Donation, *domain.Request, error) {
	var missing []string
	if in.RequestID == "" {
		missing = append(missing, "request_id")
	}
	if in.DonorName == "" {
		missing = append(missing, "donor_name")
	}
	if in.Type == "" {
		missing = append(missing, "donation_type")
	}
	if len(missing) > 0 {
		return nil, nil, &ValidationError{Message: "Missing required fields: " + strings.Join(missing, ", ")}
	}

	// Existence probe before a lock entry is allocated, so donations
	// against garbage IDs do not grow the lock map.
	if _, err := s.requests.GetByID(in.RequestID); err != nil {
		return nil, nil, &NotFoundError{Message: fmt.Sprintf("Request with ID %s not found", in.RequestID)}
	}

	lock := s.requestLock(in.RequestID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock; the probe above may be stale.
	req, err := s.requests.GetByID(in.RequestID)
	if err != nil {
		return nil, nil, &NotFoundError{Message: fmt.Sprintf("Request with ID %s not found", in.RequestID)}
	}

	inst, err := s.catalog.InstitutionByID(req.InstitutionID)
	if err != nil {
		return nil, nil, &NotFoundError{Message: fmt.Sprintf("Institution with ID %s not found", req.InstitutionID)}
	}

	switch in.Type {
	case domain.DonationMoney:
		return s.processMoneyDonation(ctx, in, req, inst)
	case domain.DonationDirectItem:
		return s.processDirectItemDonation(ctx, in, req, inst)
	default:
		return nil, nil, &ValidationError{Message: fmt.Sprintf("Invalid donation type: %s", in.Type)}
	}
}

func (s *Service) processMoneyDonation(ctx context.Context, in CreateDonationInput, req *domain.Request, inst *domain.Institution) (*domain.Donation, *domain.Request, error) {
	if in.Amount == nil {
		return nil, nil, &ValidationError{Message: "Money donation requires 'amount' field"}
	}
	amount := int(*in.Amount)
	if amount <= 0 {
		return nil, nil, &ValidationError{Message: "Money donation 'amount' must be positive"}
	}

	match := s.advisor.MatchShop(ctx, req.Item, req.Remaining(), amount)
	message := s.advisor.ImpactMessage(ctx, in.DonorName, req.Item, match.QuantityPossible, inst)

	donation := &domain.Donation{
		ID:                 uuid.NewString(),
		RequestID:          req.ID,
		DonorName:          in.DonorName,
		Type:               domain.DonationMoney,
		Amount:             amount,
		ShopRecommendation: match,
		ImpactMessage:      message,
		CreatedAt:          time.Now().UTC(),
	}

	// The fulfillment increment is what the budget buys, not the raw amount.
	if err := s.applyDonation(donation, req, match.QuantityPossible); err != nil {
		return nil, nil, err
	}
	return donation, req, nil
}

func (s *Service) processDirectItemDonation(ctx context.Context, in CreateDonationInput, req *domain.Request, inst *domain.Institution) (*domain.Donation, *domain.Request, error) {
	if in.Quantity == nil {
		return nil, nil, &ValidationError{Message: "Direct item donation requires 'quantity' field"}
	}
	quantity := int(*in.Quantity)
	if quantity <= 0 {
		return nil, nil, &ValidationError{Message: "Direct item donation 'quantity' must be positive"}
	}

	message := s.advisor.ImpactMessage(ctx, in.DonorName, req.Item, quantity, inst)

	donation := &domain.Donation{
		ID:            uuid.NewString(),
		RequestID:     req.ID,
		DonorName:     in.DonorName,
		Type:          domain.DonationDirectItem,
		Quantity:      quantity,
		ShopID:        in.ShopID,
		ImpactMessage: message,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.applyDonation(donation, req, quantity); err != nil {
		return nil, nil, err
	}
	return donation, req, nil
}

// applyDonation mutates the request and records the donation. Called with the
// per-request lock held. A failure on either write reverts the request record
// so no partial mutation survives into subsequent reads.
func (s *Service) applyDonation(donation *domain.Donation, req *domain.Request, increment int) error {
	prevFulfilled, prevStatus := req.FulfilledQuantity, req.Status
	req.FulfilledQuantity += increment
	if req.FulfilledQuantity >= req.Quantity {
		req.Status = domain.StatusFulfilled
	}

	if err := s.requests.Update(req); err != nil {
		req.FulfilledQuantity, req.Status = prevFulfilled, prevStatus
		return fmt.Errorf("update request: %w", err)
	}
	if err := s.donations.Insert(donation); err != nil {
		req.FulfilledQuantity, req.Status = prevFulfilled, prevStatus
		if rbErr := s.requests.Update(req); rbErr != nil {
			log.Printf("[fulfillment] WARNING: could not roll back request %s after failed donation insert: %v",
				req.ID, rbErr)
		}
		return fmt.Errorf("insert donation: %w", err)
	}

	log.Printf("[fulfillment] donation %s (%s) from %s: request %s now %d/%d kg (%s)",
		donation.ID, donation.Type, donation.DonorName, req.ID,
		req.FulfilledQuantity, req.Quantity, req.Status)

	return nil
}
