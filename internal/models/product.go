// Package models defines core data structures for products, search criteria, and results.
package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Product represents a single catalog entry. ID is unique and stable within a
// catalog and is the sole key for cart membership and result-list identity.
type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Price       Price   `json:"price"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"rating_count"`
	ImageURL    string  `json:"image_url,omitempty"`
	DetailURL   string  `json:"detail_url,omitempty"`
}

// Price holds a product price as received from a data source: either a bare
// decimal amount or a pre-formatted currency string such as "₹1,234.50".
// The zero value parses to 0.
type Price struct {
	Raw string
}

// NewPrice returns a Price for a plain decimal amount.
func NewPrice(amount float64) Price {
	return Price{Raw: strconv.FormatFloat(amount, 'f', -1, 64)}
}

// Amount parses the price to a decimal amount. Currency symbols, thousands
// separators, and any other non-digit characters besides the decimal point are
// stripped before parsing. Unparsable input (including negative amounts, which
// are unsupported) yields 0.
func (p Price) Amount() float64 {
	return looseFloat(p.Raw)
}

// String returns the price as received when it was formatted upstream, or a
// plain decimal rendering otherwise.
func (p Price) String() string {
	if p.Raw == "" {
		return "0"
	}
	return p.Raw
}

// UnmarshalJSON accepts either a JSON number or a string.
func (p *Price) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.Raw = s
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = NewPrice(f)
	return nil
}

// MarshalJSON emits the raw price as a string so formatted currency values
// survive a round trip unchanged.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Raw)
}

// looseFloat strips everything except digits and the decimal point, then
// parses. Returns 0 when nothing parsable remains.
func looseFloat(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}