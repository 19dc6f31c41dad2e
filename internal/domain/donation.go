package domain

import "time"

type DonationType string

const (
	DonationMoney      DonationType = "money"
	DonationDirectItem DonationType = "direct_item"
)

// Donation is a donor contribution applied against one request. Created once,
// never mutated or deleted.
type Donation struct {
	ID        string       `json:"id"`
	RequestID string       `json:"request_id"`
	DonorName string       `json:"donor_name"`
	Type      DonationType `json:"donation_type"`

	// Money donations.
	Amount             int        `json:"amount,omitempty"`
	ShopRecommendation *ShopMatch `json:"shop_recommendation,omitempty"`

	// Direct item donations.
	Quantity int    `json:"quantity,omitempty"`
	ShopID   string `json:"shop_id,omitempty"`

	ImpactMessage string    `json:"impact_message,omitempty"`
	CreatedAt     time.Time `json:"date"`
}

// ShopMatch is a model-assisted purchase recommendation. RecommendedShop is
// opaque text from the model and is not guaranteed to name a real shop.
type ShopMatch struct {
	RecommendedShop  string `json:"recommended_shop"`
	PricePerUnit     int    `json:"price_per_unit"`
	QuantityPossible int    `json:"quantity_possible"`
	Reasoning        string `json:"reasoning"`
}

// AnomalyCheck is a model-assisted plausibility score for a new request.
// RiskScore runs 1 (not suspicious) to 10 (highly suspicious).
type AnomalyCheck struct {
	RiskScore int    `json:"risk_score"`
	Reasoning string `json:"reasoning"`
}
