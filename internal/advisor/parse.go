package advisor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/donatio/aidmatch/internal/domain"
)

// Model responses are free text that usually embeds a JSON object. Extraction
// runs in two tiers: a balanced-brace scan for an embedded object, then a
// labeled-line scan. Either tier failing entirely is reported as an error so
// the caller can substitute its static fallback.

// extractJSONObject returns the first balanced {...} region of text. The scan
// tracks string literals and escapes so braces inside values do not count.
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// coerceInt converts a decoded JSON value to an integer, truncating floats
// and pulling digits out of numeric strings.
func coerceInt(v any) (int, error) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("non-numeric value %q", n.String())
		}
		return int(f), nil
	case float64:
		return int(n), nil
	case string:
		return digitsToInt(n)
	default:
		return 0, fmt.Errorf("non-numeric value of type %T", v)
	}
}

// digitsToInt keeps only digit characters and converts them, mirroring the
// line-scan treatment of values like "₹50/kg" or "10 kg".
func digitsToInt(s string) (int, error) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, fmt.Errorf("no digits in %q", s)
	}
	return strconv.Atoi(b.String())
}

// scanLabeledLines walks text line by line looking for the given field names.
// A line counts when it contains a field name (case-insensitive); the value
// is everything after the first colon, with whitespace and quotes stripped.
func scanLabeledLines(text string, fields []string) map[string]string {
	found := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		for _, field := range fields {
			if !strings.Contains(lower, field) {
				continue
			}
			if _, ok := found[field]; ok {
				continue
			}
			_, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			found[field] = strings.Trim(strings.TrimSpace(value), `"'`)
		}
	}
	return found
}

func decodeObject(raw string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func parseShopMatch(text string) (*domain.ShopMatch, error) {
	if raw, ok := extractJSONObject(text); ok {
		obj, err := decodeObject(raw)
		if err != nil {
			return nil, fmt.Errorf("embedded object: %w", err)
		}
		match := &domain.ShopMatch{}
		if v, ok := obj["recommended_shop"]; ok {
			match.RecommendedShop = fmt.Sprintf("%v", v)
		}
		if v, ok := obj["reasoning"]; ok {
			match.Reasoning = fmt.Sprintf("%v", v)
		}
		if v, ok := obj["price_per_unit"]; ok {
			if match.PricePerUnit, err = coerceInt(v); err != nil {
				return nil, fmt.Errorf("price_per_unit: %w", err)
			}
		}
		if v, ok := obj["quantity_possible"]; ok {
			if match.QuantityPossible, err = coerceInt(v); err != nil {
				return nil, fmt.Errorf("quantity_possible: %w", err)
			}
		}
		return match, nil
	}

	found := scanLabeledLines(text, []string{"recommended_shop", "price_per_unit", "quantity_possible", "reasoning"})
	if len(found) == 0 {
		return nil, fmt.Errorf("no JSON object and no labeled lines")
	}
	match := &domain.ShopMatch{
		RecommendedShop: found["recommended_shop"],
		Reasoning:       found["reasoning"],
	}
	var err error
	if v, ok := found["price_per_unit"]; ok {
		if match.PricePerUnit, err = digitsToInt(v); err != nil {
			return nil, fmt.Errorf("price_per_unit line: %w", err)
		}
	}
	if v, ok := found["quantity_possible"]; ok {
		if match.QuantityPossible, err = digitsToInt(v); err != nil {
			return nil, fmt.Errorf("quantity_possible line: %w", err)
		}
	}
	return match, nil
}

func parseAnomalyCheck(text string) (*domain.AnomalyCheck, error) {
	if raw, ok := extractJSONObject(text); ok {
		obj, err := decodeObject(raw)
		if err != nil {
			return nil, fmt.Errorf("embedded object: %w", err)
		}
		check := &domain.AnomalyCheck{}
		if v, ok := obj["risk_score"]; ok {
			if check.RiskScore, err = coerceInt(v); err != nil {
				return nil, fmt.Errorf("risk_score: %w", err)
			}
		}
		if v, ok := obj["reasoning"]; ok {
			check.Reasoning = fmt.Sprintf("%v", v)
		}
		return check, nil
	}

	found := scanLabeledLines(text, []string{"risk_score", "reasoning"})
	if len(found) == 0 {
		return nil, fmt.Errorf("no JSON object and no labeled lines")
	}
	check := &domain.AnomalyCheck{Reasoning: found["reasoning"]}
	if v, ok := found["risk_score"]; ok {
		var err error
		if check.RiskScore, err = digitsToInt(v); err != nil {
			return nil, fmt.Errorf("risk_score line: %w", err)
		}
	}
	return check, nil
}
