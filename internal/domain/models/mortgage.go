package models

// Product keys as used by the rate sources.
const (
	ProductFixed30 = "fixed_30"
	ProductFixed15 = "fixed_15"
	ProductARM51   = "arm_5_1"
	ProductARM71   = "arm_7_1"
)

// Product describes one quoted mortgage product.
type Product struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	TermYears int    `json:"termYears"`
}

// Products returns the quoted products in quote order.
func Products() []Product {
	return []Product{
		{Key: ProductFixed30, Name: "30-Year Fixed", TermYears: 30},
		{Key: ProductFixed15, Name: "15-Year Fixed", TermYears: 15},
		{Key: ProductARM51, Name: "5/1 ARM", TermYears: 30},
		{Key: ProductARM71, Name: "7/1 ARM", TermYears: 30},
	}
}

// ProductKeys returns the product keys in quote order.
func ProductKeys() []string {
	ps := Products()
	keys := make([]string, 0, len(ps))
	for _, p := range ps {
		keys = append(keys, p.Key)
	}
	return keys
}

// ApplicantProfile is a validated applicant financial profile.
type ApplicantProfile struct {
	CreditScore           int
	LoanValue             float64
	State                 string
	HomeType              string
	PropertyPrice         float64
	DownPayment           float64
	Income                float64
	Points                float64
	AssetsUnderManagement float64
}

// RatePoint is one (points, rate) reference pair on a product curve.
type RatePoint struct {
	Points float64 `json:"points"`
	Rate   float64 `json:"rate"`
}

// MortgageQuote is the priced result for one product.
type MortgageQuote struct {
	MortgageType string   `json:"mortgageType"`
	Rate         float64  `json:"rate"`
	Points       float64  `json:"points"`
	APR          float64  `json:"apr"`
	AppliedRules []string `json:"appliedRules"`
}

// FieldViolation is a single field-level constraint failure.
type FieldViolation struct {
	Field   string
	Message string
}

func (v FieldViolation) String() string {
	return v.Field + ": " + v.Message
}
