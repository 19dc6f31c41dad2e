package repository

import "github.com/donatio/aidmatch/internal/domain"

// DefaultShops is the built-in shop catalog, used when no seed file is
// provided.
func DefaultShops() []domain.Shop {
	return []domain.Shop{
		{
			ID:       "shop1",
			Name:     "Fresh Mart",
			Items:    map[string]int{"rice": 50, "wheat_flour": 40, "dal": 120},
			Rating:   4.5,
			Distance: 2.3,
		},
		{
			ID:       "shop2",
			Name:     "Daily Needs",
			Items:    map[string]int{"rice": 55, "wheat_flour": 35, "dal": 110},
			Rating:   4.2,
			Distance: 1.5,
		},
		{
			ID:       "shop3",
			Name:     "Green Grocers",
			Items:    map[string]int{"rice": 48, "wheat_flour": 42, "dal": 115},
			Rating:   4.0,
			Distance: 3.1,
		},
	}
}

// DefaultInstitutions is the built-in institution catalog.
func DefaultInstitutions() []domain.Institution {
	return []domain.Institution{
		{
			ID:            "inst1",
			Name:          "Hope Shelter",
			Type:          "orphanage",
			Beneficiaries: 25,
			Address:       "123 Main St",
		},
	}
}
