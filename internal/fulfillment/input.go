package fulfillment

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/donatio/aidmatch/internal/domain"
)

// FlexInt decodes from a JSON number or a numeric string, truncating
// fractional numbers. Donor-facing clients send quantities and amounts both
// ways.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 1 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return fmt.Errorf("invalid quoted number %s", b)
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid numeric string %q", s)
		}
		*f = FlexInt(n)
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", b)
	}
	*f = FlexInt(int(v))
	return nil
}

// CreateRequestInput is the POST /requests payload. Pointer fields
// distinguish absent from zero.
type CreateRequestInput struct {
	InstitutionID string   `json:"institution_id"`
	Item          string   `json:"item"`
	Quantity      *FlexInt `json:"quantity"`
	EstimatedCost *FlexInt `json:"estimated_cost"`
}

// CreateDonationInput is the POST /donations payload. Amount applies to money
// donations, Quantity and ShopID to direct item donations.
type CreateDonationInput struct {
	RequestID string              `json:"request_id"`
	DonorName string              `json:"donor_name"`
	Type      domain.DonationType `json:"donation_type"`
	Amount    *FlexInt            `json:"amount"`
	Quantity  *FlexInt            `json:"quantity"`
	ShopID    string              `json:"shop_id"`
}
