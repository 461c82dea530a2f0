package models

import "time"

// QuoteEvent is published once per successful quote request.
type QuoteEvent struct {
	ID        string          `json:"id"`
	IssuedAt  time.Time       `json:"issued_at"`
	State     string          `json:"state"`
	HomeType  string          `json:"home_type"`
	LoanValue float64         `json:"loan_value"`
	Points    float64         `json:"points"`
	Quotes    []MortgageQuote `json:"quotes"`
}
