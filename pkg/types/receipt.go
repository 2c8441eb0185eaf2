package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Item is a single line item on a receipt. Quantity and price are
// non-negative by convention; the decoder applies the legacy
// parse-or-zero policy so numeric-looking strings from older stored
// records still decode (non-numeric input becomes 0).
type Item struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

func (it *Item) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name     string `json:"name"`
		Quantity any    `json:"quantity"`
		Price    any    `json:"price"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	it.Name = raw.Name
	it.Quantity = CoerceNumber(raw.Quantity)
	it.Price = CoerceNumber(raw.Price)
	return nil
}

// CoerceNumber converts a decoded JSON value to a float64 using the
// legacy permissive policy: numbers pass through, numeric-looking
// strings are parsed (longest numeric prefix, like parseFloat), and
// anything else yields 0. Kept for hash compatibility with records
// written by earlier producers; new input is validated strictly before
// it reaches this path.
func CoerceNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		return parseNumericPrefix(strings.TrimSpace(n))
	default:
		return 0
	}
}

func parseNumericPrefix(s string) float64 {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	for i := len(s); i > 0; i-- {
		if f, err := strconv.ParseFloat(s[:i], 64); err == nil {
			return f
		}
	}
	return 0
}

// Receipt holds the protected business fields of a receipt plus the
// display-only currency code. The protected fields are exactly the
// inputs to canonicalization; currency never participates in hashing.
type Receipt struct {
	ID           string  `json:"id"`
	CustomerName string  `json:"customerName"`
	Items        []Item  `json:"items"`
	Date         string  `json:"date"`
	Currency     string  `json:"currency,omitempty"`
	Total        float64 `json:"total"`
	UserID       string  `json:"userId"`
	CreatedAt    string  `json:"createdAt"`
	Version      string  `json:"version"`
	TamperProof  bool    `json:"tamperProof"`
}

// SealedReceipt is a receipt with its integrity envelope attached. The
// envelope is derived at creation and never recomputed in place.
type SealedReceipt struct {
	Receipt
	Hash              string `json:"hash"`
	IntegrityChecksum string `json:"integrityChecksum"`
	Locked            bool   `json:"locked"`
}
