package domain

// Shop is a seed catalog entry. Items maps item name to price per kg; a
// missing entry means the shop does not stock the item. Shops are never
// created or mutated at runtime.
type Shop struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Items    map[string]int `json:"items"`
	Rating   float64        `json:"rating"`
	Distance float64        `json:"distance"`
}

// Stocks reports whether the shop carries the item.
func (s *Shop) Stocks(item string) bool {
	_, ok := s.Items[item]
	return ok
}

// Institution is a seed catalog entry for a beneficiary organisation.
type Institution struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Beneficiaries int    `json:"beneficiaries"`
	Address       string `json:"address"`
}
