package repository

import (
	"sync"

	"github.com/donatio/aidmatch/internal/domain"
)

// MemoryRequestStore is the default, process-lifetime request ledger. All
// methods copy records on the way in and out so callers never share memory
// with the store.
type MemoryRequestStore struct {
	mu       sync.RWMutex
	order    []string
	requests map[string]domain.Request
}

func NewMemoryRequestStore() *MemoryRequestStore {
	return &MemoryRequestStore{requests: make(map[string]domain.Request)}
}

func (s *MemoryRequestStore) Insert(req *domain.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.ID]; !ok {
		s.order = append(s.order, req.ID)
	}
	s.requests[req.ID] = *req
	return nil
}

func (s *MemoryRequestStore) GetByID(id string) (*domain.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &req, nil
}

func (s *MemoryRequestStore) List() ([]domain.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Request, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.requests[id])
	}
	return out, nil
}

func (s *MemoryRequestStore) ListByInstitution(institutionID string) ([]domain.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Request
	for _, id := range s.order {
		if req := s.requests[id]; req.InstitutionID == institutionID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *MemoryRequestStore) Update(req *domain.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.ID]; !ok {
		return ErrNotFound
	}
	s.requests[req.ID] = *req
	return nil
}

// MemoryDonationStore is the default, process-lifetime donation ledger.
type MemoryDonationStore struct {
	mu        sync.RWMutex
	donations []domain.Donation
}

func NewMemoryDonationStore() *MemoryDonationStore {
	return &MemoryDonationStore{}
}

func (s *MemoryDonationStore) Insert(d *domain.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.donations = append(s.donations, *d)
	return nil
}

func (s *MemoryDonationStore) List() ([]domain.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Donation, len(s.donations))
	copy(out, s.donations)
	return out, nil
}
