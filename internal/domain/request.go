package domain

import "time"

type RequestStatus string

const (
	StatusOpen      RequestStatus = "open"
	StatusFulfilled RequestStatus = "fulfilled"
)

// Request is an institution's stated need for a quantity of an item.
// FulfilledQuantity only ever grows; Status flips to fulfilled exactly when
// FulfilledQuantity reaches Quantity and never reverts.
type Request struct {
	ID                string        `json:"id"`
	InstitutionID     string        `json:"institution_id"`
	Item              string        `json:"item"`
	Quantity          int           `json:"quantity"`
	EstimatedCost     int           `json:"estimated_cost"`
	FulfilledQuantity int           `json:"fulfilled_quantity"`
	Status            RequestStatus `json:"status"`
	CreatedAt         time.Time     `json:"date"`
}

// Remaining is the quantity still needed, clamped at zero for requests that
// ended up over-fulfilled.
func (r *Request) Remaining() int {
	if rem := r.Quantity - r.FulfilledQuantity; rem > 0 {
		return rem
	}
	return 0
}
