package service

import (
	"context"

	"MortgageCalc/internal/domain/models"
)

// Quoter prices every product for a validated profile.
type Quoter interface {
	Quote(ctx context.Context, profile models.ApplicantProfile) ([]models.MortgageQuote, error)
}

// ProfileValidator checks field constraints and business rules.
type ProfileValidator interface {
	Validate(req *models.QuoteRequest) []models.FieldViolation
	IsDownPaymentValid(profile models.ApplicantProfile) bool
}
