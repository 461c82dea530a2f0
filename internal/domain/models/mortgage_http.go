package models

// QuoteRequest is the JSON body of POST /api/mortgage/calculate.
// Pointer fields distinguish a missing value from a zero value. Points
// defaults to 0 only when absent; an explicit null stays nil.
type QuoteRequest struct {
	CreditScore           *float64 `json:"creditScore" validate:"required,integral,gte=300,lte=850"`
	LoanValue             *float64 `json:"loanValue" validate:"required,gt=0"`
	State                 string   `json:"state" validate:"notblank"`
	HomeType              string   `json:"homeType" validate:"notblank"`
	PropertyPrice         *float64 `json:"propertyPrice" validate:"required,gt=0"`
	DownPayment           *float64 `json:"downPayment" validate:"required,gt=0"`
	Income                *float64 `json:"income" validate:"required,gt=0"`
	Points                *float64 `json:"points" default:"0" validate:"required"`
	AssetsUnderManagement *float64 `json:"assetsUnderManagement" validate:"required,gt=0"`
}

// ToProfile converts a validated request. Nil fields map to zero values, so
// callers must validate first.
func (r *QuoteRequest) ToProfile() ApplicantProfile {
	return ApplicantProfile{
		CreditScore:           int(derefFloat(r.CreditScore)),
		LoanValue:             derefFloat(r.LoanValue),
		State:                 r.State,
		HomeType:              r.HomeType,
		PropertyPrice:         derefFloat(r.PropertyPrice),
		DownPayment:           derefFloat(r.DownPayment),
		Income:                derefFloat(r.Income),
		Points:                derefFloat(r.Points),
		AssetsUnderManagement: derefFloat(r.AssetsUnderManagement),
	}
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
