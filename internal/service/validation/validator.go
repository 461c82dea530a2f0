package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"MortgageCalc/internal/domain/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validator checks quote requests against the applicant field constraints.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator reporting fields by their JSON names.
func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("register notblank: %w", err)
	}
	if err := v.RegisterValidation("integral", isIntegral); err != nil {
		return nil, fmt.Errorf("register integral: %w", err)
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}, nil
}

// isIntegral accepts whole-valued floats such as 720.0.
func isIntegral(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		x := f.Float()
		return !math.IsInf(x, 0) && x == math.Trunc(x)
	default:
		return true
	}
}

// Validate returns every constraint violation of req in field order. A nil
// request is reported as a single body violation.
func (val *Validator) Validate(req *models.QuoteRequest) []models.FieldViolation {
	if req == nil {
		return []models.FieldViolation{{Field: "body", Message: "must not be null"}}
	}
	err := val.v.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []models.FieldViolation{{Field: "body", Message: err.Error()}}
	}

	out := make([]models.FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, models.FieldViolation{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// IsValid reports whether req has no field violations.
func (val *Validator) IsValid(req *models.QuoteRequest) bool {
	return len(val.Validate(req)) == 0
}

// IsDownPaymentValid reports whether the down payment does not exceed the
// property price. Equal amounts are valid.
func (val *Validator) IsDownPaymentValid(profile models.ApplicantProfile) bool {
	return profile.DownPayment <= profile.PropertyPrice
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be null"
	case "notblank":
		return "must not be blank"
	case "integral":
		return "must be a whole number"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
