package usecase

import (
	"errors"
	"fmt"
	"math"

	"MortgageCalc/internal/domain/models"
)

// ErrNoRateData marks a product with no reference curve. It means the
// service was deployed without valid rate data and is never a per-request
// condition.
var ErrNoRateData = errors.New("no rate data available")

const (
	smallLoanThreshold    = 500000.0
	smallLoanRateIncrease = 1.0

	highAUMThreshold    = 10000000.0
	highAUMRateDecrease = 0.25

	newYorkState          = "NY"
	newYorkPointsIncrease = 0.25
)

// Applied rule descriptions, in evaluation order.
const (
	RuleSmallLoan = "Small Loan Amount (< $500,000): +1.00% to rate"
	RuleHighAUM   = "High Assets Under Management (> $10,000,000): -0.25% to rate"
	RuleNewYork   = "New York State: +0.25 points"
)

// RateLookup returns the reference curve of a product, empty if unknown.
type RateLookup interface {
	Get(productKey string) []models.RatePoint
}

type fingerprinter interface {
	Fingerprint() string
}

// PricingEngine turns a profile into one quote per product.
type PricingEngine struct {
	rates    RateLookup
	products []models.Product
}

// NewPricingEngine creates an engine quoting the standard products.
func NewPricingEngine(rates RateLookup) *PricingEngine {
	return &PricingEngine{rates: rates, products: models.Products()}
}

// Quote prices the four products in fixed order. The profile must already
// be validated.
func (e *PricingEngine) Quote(profile models.ApplicantProfile) ([]models.MortgageQuote, error) {
	quotes := make([]models.MortgageQuote, 0, len(e.products))
	for _, p := range e.products {
		q, err := e.quoteProduct(p, profile)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// TableVersion returns the rate table fingerprint, or "" when the lookup
// does not expose one.
func (e *PricingEngine) TableVersion() string {
	if f, ok := e.rates.(fingerprinter); ok {
		return f.Fingerprint()
	}
	return ""
}

func (e *PricingEngine) quoteProduct(p models.Product, profile models.ApplicantProfile) (models.MortgageQuote, error) {
	base, err := closestRatePoint(e.rates.Get(p.Key), profile.Points)
	if err != nil {
		return models.MortgageQuote{}, fmt.Errorf("%w for %s", err, p.Key)
	}

	rules := make([]string, 0, 3)
	rate := applyRateRules(base.Rate, profile, &rules)
	points := applyPointsRules(base.Points, profile, &rules)

	return models.MortgageQuote{
		MortgageType: p.Name,
		Rate:         rate,
		Points:       points,
		APR:          SimpleAPR(profile.LoanValue, rate, points, p.TermYears),
		AppliedRules: rules,
	}, nil
}

// closestRatePoint picks the entry nearest to requested points. Ties keep
// the earliest entry.
func closestRatePoint(pts []models.RatePoint, requested float64) (models.RatePoint, error) {
	if len(pts) == 0 {
		return models.RatePoint{}, ErrNoRateData
	}
	closest := pts[0]
	minDiff := math.Abs(closest.Points - requested)
	for _, rp := range pts[1:] {
		if d := math.Abs(rp.Points - requested); d < minDiff {
			minDiff = d
			closest = rp
		}
	}
	return closest, nil
}

func applyRateRules(rate float64, profile models.ApplicantProfile, rules *[]string) float64 {
	if profile.LoanValue < smallLoanThreshold {
		rate += smallLoanRateIncrease
		*rules = append(*rules, RuleSmallLoan)
	}
	if profile.AssetsUnderManagement > highAUMThreshold {
		rate -= highAUMRateDecrease
		*rules = append(*rules, RuleHighAUM)
	}
	return rate
}

func applyPointsRules(points float64, profile models.ApplicantProfile, rules *[]string) float64 {
	if profile.State == newYorkState {
		points += newYorkPointsIncrease
		*rules = append(*rules, RuleNewYork)
	}
	return points
}

// SimpleAPR spreads simple interest plus point fees linearly over the term:
// (principal*rate*years + fees) / principal / years. It does not compound.
func SimpleAPR(loanValue, rate, points float64, termYears int) float64 {
	years := float64(termYears)
	fees := (points / 100) * loanValue
	totalInterest := loanValue * (rate / 100) * years
	return (totalInterest + fees) / loanValue / years
}
