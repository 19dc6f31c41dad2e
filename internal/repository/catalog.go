package repository

import "github.com/donatio/aidmatch/internal/domain"

// Catalog is the read-only shop and institution seed data. It is built once
// at startup and never mutated, so lookups need no locking.
type Catalog struct {
	shops        []domain.Shop
	institutions []domain.Institution
}

func NewCatalog(shops []domain.Shop, institutions []domain.Institution) *Catalog {
	return &Catalog{shops: shops, institutions: institutions}
}

func (c *Catalog) Shops() []domain.Shop {
	return c.shops
}

func (c *Catalog) Institutions() []domain.Institution {
	return c.institutions
}

// ShopsStocking returns the shops that carry the item, in seed order.
func (c *Catalog) ShopsStocking(item string) []domain.Shop {
	var out []domain.Shop
	for _, s := range c.shops {
		if s.Stocks(item) {
			out = append(out, s)
		}
	}
	return out
}

func (c *Catalog) InstitutionByID(id string) (*domain.Institution, error) {
	for i := range c.institutions {
		if c.institutions[i].ID == id {
			inst := c.institutions[i]
			return &inst, nil
		}
	}
	return nil, ErrNotFound
}

// FirstShop returns the first seed shop. The response interpreter uses it as
// the last-resort shop recommendation.
func (c *Catalog) FirstShop() (*domain.Shop, error) {
	if len(c.shops) == 0 {
		return nil, ErrNotFound
	}
	shop := c.shops[0]
	return &shop, nil
}
