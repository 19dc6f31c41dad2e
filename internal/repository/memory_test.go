package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donatio/aidmatch/internal/domain"
)

func sampleRequest(id, institutionID string) *domain.Request {
	return &domain.Request{
		ID:            id,
		InstitutionID: institutionID,
		Item:          "rice",
		Quantity:      10,
		EstimatedCost: 500,
		Status:        domain.StatusOpen,
		CreatedAt:     time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMemoryRequestStore(t *testing.T) {
	store := NewMemoryRequestStore()

	_, err := store.GetByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Insert(sampleRequest("r1", "inst1")))
	require.NoError(t, store.Insert(sampleRequest("r2", "inst2")))
	require.NoError(t, store.Insert(sampleRequest("r3", "inst1")))

	got, err := store.GetByID("r2")
	require.NoError(t, err)
	assert.Equal(t, "inst2", got.InstitutionID)

	all, err := store.List()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"r1", "r2", "r3"}, []string{all[0].ID, all[1].ID, all[2].ID}, "insertion order preserved")

	byInst, err := store.ListByInstitution("inst1")
	require.NoError(t, err)
	assert.Len(t, byInst, 2)

	got.FulfilledQuantity = 10
	got.Status = domain.StatusFulfilled
	require.NoError(t, store.Update(got))

	updated, err := store.GetByID("r2")
	require.NoError(t, err)
	assert.Equal(t, 10, updated.FulfilledQuantity)
	assert.Equal(t, domain.StatusFulfilled, updated.Status)

	assert.ErrorIs(t, store.Update(sampleRequest("ghost", "inst1")), ErrNotFound)
}

func TestMemoryRequestStoreReturnsCopies(t *testing.T) {
	store := NewMemoryRequestStore()
	require.NoError(t, store.Insert(sampleRequest("r1", "inst1")))

	got, err := store.GetByID("r1")
	require.NoError(t, err)
	got.FulfilledQuantity = 99

	fresh, err := store.GetByID("r1")
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.FulfilledQuantity, "mutating a returned record must not touch the store")
}

func TestMemoryDonationStore(t *testing.T) {
	store := NewMemoryDonationStore()

	empty, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, store.Insert(&domain.Donation{
		ID:        "d1",
		RequestID: "r1",
		DonorName: "Alice",
		Type:      domain.DonationMoney,
		Amount:    500,
	}))
	require.NoError(t, store.Insert(&domain.Donation{
		ID:        "d2",
		RequestID: "r1",
		DonorName: "Bob",
		Type:      domain.DonationDirectItem,
		Quantity:  5,
	}))

	all, err := store.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alice", all[0].DonorName)
	assert.Equal(t, "Bob", all[1].DonorName)
}

func TestCatalog(t *testing.T) {
	catalog := NewCatalog(DefaultShops(), DefaultInstitutions())

	assert.Len(t, catalog.Shops(), 3)
	assert.Len(t, catalog.Institutions(), 1)

	inst, err := catalog.InstitutionByID("inst1")
	require.NoError(t, err)
	assert.Equal(t, "Hope Shelter", inst.Name)

	_, err = catalog.InstitutionByID("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	stocking := catalog.ShopsStocking("rice")
	assert.Len(t, stocking, 3)
	assert.Empty(t, catalog.ShopsStocking("sugar"))

	first, err := catalog.FirstShop()
	require.NoError(t, err)
	assert.Equal(t, "Fresh Mart", first.Name)

	empty := NewCatalog(nil, nil)
	_, err = empty.FirstShop()
	assert.ErrorIs(t, err, ErrNotFound)
}
