// Package advisor holds the three model-assisted decisions of the platform:
// picking a shop for a money donation, writing the donor impact message and
// scoring new requests for anomalies. Every decision degrades to a static
// fallback rather than failing, so an unreachable or rambling model never
// breaks the donation pipeline.
package advisor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/donatio/aidmatch/internal/domain"
	"github.com/donatio/aidmatch/internal/llm"
	"github.com/donatio/aidmatch/internal/repository"
)

// FallbackMessage is stored as the impact message when generation fails.
const FallbackMessage = "Error processing request. Please try again later."

const fallbackAnomalyReasoning = "Unable to determine risk level due to processing error. Defaulting to low-medium risk."

// Service answers the model-assisted questions. It never returns errors for
// model or parse failures; those are logged and replaced by fallbacks.
type Service struct {
	generator llm.Generator
	catalog   *repository.Catalog
	requests  repository.RequestStore
}

func NewService(generator llm.Generator, catalog *repository.Catalog, requests repository.RequestStore) *Service {
	return &Service{
		generator: generator,
		catalog:   catalog,
		requests:  requests,
	}
}

// MatchShop recommends where to spend budget on the item. The recommendation
// comes from the model; if the call or the interpretation fails, the first
// seed shop with its listed price is recommended instead, with the budget
// divided by that price as the purchasable quantity.
func (s *Service) MatchShop(ctx context.Context, item string, quantityNeeded, budget int) *domain.ShopMatch {
	var lines []string
	for _, shop := range s.catalog.ShopsStocking(item) {
		lines = append(lines, fmt.Sprintf("- %s: Price ₹%d/kg, Distance: %.1fkm, Rating: %.1f/5",
			shop.Name, shop.Items[item], shop.Distance, shop.Rating))
	}

	prompt := fmt.Sprintf(`Find the best shop to fulfill this donation:
- Item: %s
- Quantity needed: %d kg
- Available budget: ₹%d

Available shops:
%s

Recommend which shop offers the best value and calculate the maximum quantity
possible within the budget. Format your response as JSON with the following fields:
- recommended_shop: The name of the recommended shop
- price_per_unit: The price per kg
- quantity_possible: How many kg can be purchased with the budget
- reasoning: Brief explanation for your recommendation`,
		item, quantityNeeded, budget, strings.Join(lines, "\n"))

	response, err := s.generator.Generate(ctx, prompt, llm.Options{})
	if err != nil {
		return s.fallbackShopMatch(item, budget)
	}

	match, err := parseShopMatch(response)
	if err != nil {
		log.Printf("[advisor] parsing shop recommendation failed: %v", err)
		log.Printf("[advisor] original response: %s", response)
		return s.fallbackShopMatch(item, budget)
	}
	return match
}

// fallbackShopMatch recommends the first seed shop. A shop that does not
// stock the item (or lists a zero price) yields quantity 0 rather than a
// division fault.
func (s *Service) fallbackShopMatch(item string, budget int) *domain.ShopMatch {
	match := &domain.ShopMatch{Reasoning: "Based on available data and budget."}
	shop, err := s.catalog.FirstShop()
	if err != nil {
		return match
	}
	match.RecommendedShop = shop.Name
	if price := shop.Items[item]; price > 0 {
		match.PricePerUnit = price
		match.QuantityPossible = budget / price
	}
	return match
}

// ImpactMessage writes a personalised thank-you for the donor. Generation
// runs at a higher temperature for variety; the ~150 word limit is part of
// the prompt, not enforced here.
func (s *Service) ImpactMessage(ctx context.Context, donorName, item string, quantity int, inst *domain.Institution) string {
	prompt := fmt.Sprintf(`Create a personalized thank you message for:
- Donor: %s
- Donation: %dkg of %s
- Recipient: %s (%s with %d beneficiaries)

The message should be warm, sincere, and include:
1. A heartfelt thank you
2. Specific details about how the donation helps
3. The impact this will have on the beneficiaries

Keep it under 150 words and make it emotionally resonant without being overly dramatic.`,
		donorName, quantity, item, inst.Name, inst.Type, inst.Beneficiaries)

	message, err := s.generator.Generate(ctx, prompt, llm.Options{Temperature: 0.8})
	if err != nil {
		return FallbackMessage
	}
	return message
}

// CheckAnomaly scores how plausible a new request looks against the
// institution's size and request history. An unknown institution short
// circuits to a risk-5 sentinel without calling the model.
func (s *Service) CheckAnomaly(ctx context.Context, institutionID, item string, quantity int) *domain.AnomalyCheck {
	inst, err := s.catalog.InstitutionByID(institutionID)
	if err != nil {
		return &domain.AnomalyCheck{RiskScore: 5, Reasoning: "Institution not found in database"}
	}

	history := "No historical requests available."
	if prior, err := s.requests.ListByInstitution(institutionID); err == nil && len(prior) > 0 {
		var lines []string
		for _, req := range prior {
			lines = append(lines, fmt.Sprintf("- Date: %s, Item: %s, Quantity: %d kg",
				req.CreatedAt.Format(time.RFC3339), req.Item, req.Quantity))
		}
		history = strings.Join(lines, "\n")
	}

	prompt := fmt.Sprintf(`Analyze if this donation request might be unusual or suspicious:

Current request:
- Institution: %s (%s)
- Beneficiaries: %d
- Item: %s
- Quantity: %d kg

Historical requests:
%s

Please analyze if the quantity requested seems reasonable for this institution size.
Return a JSON with:
- risk_score: A number from 1 (not suspicious) to 10 (highly suspicious)
- reasoning: Brief explanation for your assessment`,
		inst.Name, inst.Type, inst.Beneficiaries, item, quantity, history)

	response, err := s.generator.Generate(ctx, prompt, llm.Options{})
	if err != nil {
		return &domain.AnomalyCheck{RiskScore: 3, Reasoning: fallbackAnomalyReasoning}
	}

	check, err := parseAnomalyCheck(response)
	if err != nil {
		log.Printf("[advisor] parsing anomaly assessment failed: %v", err)
		return &domain.AnomalyCheck{RiskScore: 3, Reasoning: fallbackAnomalyReasoning}
	}
	return check
}
