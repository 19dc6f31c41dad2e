package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donatio/aidmatch/internal/domain"
	"github.com/donatio/aidmatch/internal/llm"
	"github.com/donatio/aidmatch/internal/repository"
)

type generatorFunc func(ctx context.Context, prompt string, opts llm.Options) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	return f(ctx, prompt, opts)
}

func testCatalog() *repository.Catalog {
	return repository.NewCatalog(repository.DefaultShops(), repository.DefaultInstitutions())
}

func newTestService(gen llm.Generator) (*Service, *repository.MemoryRequestStore) {
	requests := repository.NewMemoryRequestStore()
	return NewService(gen, testCatalog(), requests), requests
}

func TestMatchShopParsesModelResponse(t *testing.T) {
	var seenPrompt string
	svc, _ := newTestService(generatorFunc(func(_ context.Context, prompt string, _ llm.Options) (string, error) {
		seenPrompt = prompt
		return `{"recommended_shop": "Daily Needs", "price_per_unit": 55, "quantity_possible": 9, "reasoning": "ok"}`, nil
	}))

	match := svc.MatchShop(context.Background(), "rice", 10, 500)
	assert.Equal(t, "Daily Needs", match.RecommendedShop)
	assert.Equal(t, 9, match.QuantityPossible)

	// The prompt enumerates only shops that stock the item.
	assert.Contains(t, seenPrompt, "Fresh Mart")
	assert.Contains(t, seenPrompt, "Daily Needs")
	assert.Contains(t, seenPrompt, "Green Grocers")
	assert.Contains(t, seenPrompt, "Quantity needed: 10 kg")
	assert.Contains(t, seenPrompt, "budget: ₹500")
}

func TestMatchShopFallbackOnGatewayError(t *testing.T) {
	svc, _ := newTestService(generatorFunc(func(context.Context, string, llm.Options) (string, error) {
		return "", errors.New("connection refused")
	}))

	// First seed shop sells rice at 50/kg, so a 500 budget buys 10 kg.
	match := svc.MatchShop(context.Background(), "rice", 10, 500)
	assert.Equal(t, "Fresh Mart", match.RecommendedShop)
	assert.Equal(t, 50, match.PricePerUnit)
	assert.Equal(t, 10, match.QuantityPossible)
	assert.Equal(t, "Based on available data and budget.", match.Reasoning)
}

func TestMatchShopFallbackOnUnparseableResponse(t *testing.T) {
	svc, _ := newTestService(generatorFunc(func(context.Context, string, llm.Options) (string, error) {
		return "I am just a language model and cannot help with that.", nil
	}))

	match := svc.MatchShop(context.Background(), "rice", 10, 500)
	assert.Equal(t, "Fresh Mart", match.RecommendedShop)
	assert.Equal(t, 10, match.QuantityPossible)
}

func TestMatchShopFallbackGuardsUnstockedItem(t *testing.T) {
	svc, _ := newTestService(generatorFunc(func(context.Context, string, llm.Options) (string, error) {
		return "", errors.New("down")
	}))

	// Fresh Mart does not stock sugar; no division happens and the
	// quantity stays zero.
	match := svc.MatchShop(context.Background(), "sugar", 5, 500)
	assert.Equal(t, "Fresh Mart", match.RecommendedShop)
	assert.Equal(t, 0, match.PricePerUnit)
	assert.Equal(t, 0, match.QuantityPossible)
}

func TestImpactMessage(t *testing.T) {
	t.Run("returns model text at higher temperature", func(t *testing.T) {
		var seenOpts llm.Options
		svc, _ := newTestService(generatorFunc(func(_ context.Context, prompt string, opts llm.Options) (string, error) {
			seenOpts = opts
			require.Contains(t, prompt, "Donor: Alice")
			require.Contains(t, prompt, "10kg of rice")
			require.Contains(t, prompt, "Hope Shelter")
			return "Dear Alice, thank you!", nil
		}))

		inst := &domain.Institution{Name: "Hope Shelter", Type: "orphanage", Beneficiaries: 25}
		msg := svc.ImpactMessage(context.Background(), "Alice", "rice", 10, inst)
		assert.Equal(t, "Dear Alice, thank you!", msg)
		assert.InDelta(t, 0.8, seenOpts.Temperature, 0.001)
	})

	t.Run("falls back to the sentinel text on error", func(t *testing.T) {
		svc, _ := newTestService(generatorFunc(func(context.Context, string, llm.Options) (string, error) {
			return "", errors.New("timeout")
		}))

		inst := &domain.Institution{Name: "Hope Shelter", Type: "orphanage", Beneficiaries: 25}
		msg := svc.ImpactMessage(context.Background(), "Alice", "rice", 10, inst)
		assert.Equal(t, FallbackMessage, msg)
	})
}

func TestCheckAnomalyUnknownInstitution(t *testing.T) {
	calls := 0
	svc, _ := newTestService(generatorFunc(func(context.Context, string, llm.Options) (string, error) {
		calls++
		return `{"risk_score": 1}`, nil
	}))

	check := svc.CheckAnomaly(context.Background(), "nope", "rice", 10)
	assert.Equal(t, 5, check.RiskScore)
	assert.Equal(t, "Institution not found in database", check.Reasoning)
	assert.Zero(t, calls, "unknown institutions must not reach the model")
}

func TestCheckAnomalyIncludesHistory(t *testing.T) {
	var seenPrompt string
	svc, requests := newTestService(generatorFunc(func(_ context.Context, prompt string, _ llm.Options) (string, error) {
		seenPrompt = prompt
		return `{"risk_score": 2, "reasoning": "in line with history"}`, nil
	}))

	require.NoError(t, requests.Insert(&domain.Request{
		ID:            "req-1",
		InstitutionID: "inst1",
		Item:          "dal",
		Quantity:      5,
		Status:        domain.StatusOpen,
		CreatedAt:     time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
	}))

	check := svc.CheckAnomaly(context.Background(), "inst1", "rice", 10)
	assert.Equal(t, 2, check.RiskScore)
	assert.Contains(t, seenPrompt, "Item: dal, Quantity: 5 kg")
	assert.Contains(t, seenPrompt, "Beneficiaries: 25")
	assert.False(t, strings.Contains(seenPrompt, "No historical requests available."))
}

func TestCheckAnomalyNoHistory(t *testing.T) {
	var seenPrompt string
	svc, _ := newTestService(generatorFunc(func(_ context.Context, prompt string, _ llm.Options) (string, error) {
		seenPrompt = prompt
		return `{"risk_score": 1, "reasoning": "first request"}`, nil
	}))

	svc.CheckAnomaly(context.Background(), "inst1", "rice", 10)
	assert.Contains(t, seenPrompt, "No historical requests available.")
}

func TestCheckAnomalyFallback(t *testing.T) {
	t.Run("gateway error", func(t *testing.T) {
		svc, _ := newTestService(generatorFunc(func(context.Context, string, llm.Options) (string, error) {
			return "", errors.New("boom")
		}))
		check := svc.CheckAnomaly(context.Background(), "inst1", "rice", 10)
		assert.Equal(t, 3, check.RiskScore)
		assert.Equal(t, fallbackAnomalyReasoning, check.Reasoning)
	})

	t.Run("unparseable response", func(t *testing.T) {
		svc, _ := newTestService(generatorFunc(func(context.Context, string, llm.Options) (string, error) {
			return "hard to say really", nil
		}))
		check := svc.CheckAnomaly(context.Background(), "inst1", "rice", 10)
		assert.Equal(t, 3, check.RiskScore)
	})
}
