package repository

import (
	"errors"

	"github.com/donatio/aidmatch/internal/domain"
)

// ErrNotFound is returned by lookups for IDs that are not in the store.
var ErrNotFound = errors.New("not found")

// RequestStore holds the donation-request ledger.
type RequestStore interface {
	Insert(req *domain.Request) error
	GetByID(id string) (*domain.Request, error)
	List() ([]domain.Request, error)
	ListByInstitution(institutionID string) ([]domain.Request, error)
	Update(req *domain.Request) error
}

// DonationStore holds the completed-donation ledger.
type DonationStore interface {
	Insert(d *domain.Donation) error
	List() ([]domain.Donation, error)
}
