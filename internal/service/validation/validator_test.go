package validation

import (
	"testing"

	"MortgageCalc/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatp(v float64) *float64 { return &v }

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New()
	require.NoError(t, err)
	return v
}

func validRequest() *models.QuoteRequest {
	return &models.QuoteRequest{
		CreditScore:           floatp(720),
		LoanValue:             floatp(400000),
		State:                 "CA",
		HomeType:              "Condo",
		PropertyPrice:         floatp(500000),
		DownPayment:           floatp(100000),
		Income:                floatp(120000),
		Points:                floatp(0),
		AssetsUnderManagement: floatp(50000),
	}
}

func violationStrings(vs []models.FieldViolation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.String())
	}
	return out
}

func TestValidRequest(t *testing.T) {
	v := newValidator(t)
	assert.Empty(t, v.Validate(validRequest()))
	assert.True(t, v.IsValid(validRequest()))
}

func TestCreditScoreBounds(t *testing.T) {
	v := newValidator(t)

	for _, score := range []float64{300, 850} {
		req := validRequest()
		req.CreditScore = floatp(score)
		assert.Empty(t, v.Validate(req), "score %v", score)
	}

	req := validRequest()
	req.CreditScore = floatp(299)
	assert.Equal(t, []string{"creditScore: must be greater than or equal to 300"}, violationStrings(v.Validate(req)))

	req.CreditScore = floatp(851)
	assert.Equal(t, []string{"creditScore: must be less than or equal to 850"}, violationStrings(v.Validate(req)))
}

func TestCreditScoreMustBeWhole(t *testing.T) {
	v := newValidator(t)

	req := validRequest()
	req.CreditScore = floatp(720.0)
	assert.Empty(t, v.Validate(req))

	req.CreditScore = floatp(720.5)
	assert.Equal(t, []string{"creditScore: must be a whole number"}, violationStrings(v.Validate(req)))
}

func TestPositiveAmounts(t *testing.T) {
	v := newValidator(t)
	req := validRequest()
	req.LoanValue = floatp(0)
	req.Income = floatp(-1)

	assert.Equal(t, []string{
		"loanValue: must be greater than 0",
		"income: must be greater than 0",
	}, violationStrings(v.Validate(req)))
}

func TestMissingFieldsInFieldOrder(t *testing.T) {
	v := newValidator(t)
	got := violationStrings(v.Validate(&models.QuoteRequest{Points: floatp(0)}))

	assert.Equal(t, []string{
		"creditScore: must not be null",
		"loanValue: must not be null",
		"state: must not be blank",
		"homeType: must not be blank",
		"propertyPrice: must not be null",
		"downPayment: must not be null",
		"income: must not be null",
		"assetsUnderManagement: must not be null",
	}, got)
}

func TestBlankStrings(t *testing.T) {
	v := newValidator(t)
	req := validRequest()
	req.State = "   "
	req.HomeType = ""

	assert.Equal(t, []string{
		"state: must not be blank",
		"homeType: must not be blank",
	}, violationStrings(v.Validate(req)))
}

func TestNegativePointsAllowed(t *testing.T) {
	v := newValidator(t)
	req := validRequest()
	req.Points = floatp(-2.5)
	assert.Empty(t, v.Validate(req))
}

func TestNilRequest(t *testing.T) {
	got := newValidator(t).Validate(nil)
	require.Len(t, got, 1)
	assert.Equal(t, "body", got[0].Field)
}

func TestIsDownPaymentValid(t *testing.T) {
	v := newValidator(t)
	p := models.ApplicantProfile{PropertyPrice: 500000, DownPayment: 500000}
	assert.True(t, v.IsDownPaymentValid(p))

	p.DownPayment = 500000.01
	assert.False(t, v.IsDownPaymentValid(p))
}
