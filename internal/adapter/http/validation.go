package http

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

var (
	reAccountNumber = regexp.MustCompile(`^[0-9]{10}$`)
	reLoanNumber    = regexp.MustCompile(`^LN[0-9]{8}$`)
)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report json names, falling back to the Go field name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// money and rates arrive as decimal.Decimal; validate their string form
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("acct10", func(fl validator.FieldLevel) bool {
		return reAccountNumber.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("loannum", func(fl validator.FieldLevel) bool {
		return reLoanNumber.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("dpos", func(fl validator.FieldLevel) bool {
		d, ok := decimalField(fl)
		return ok && d.IsPositive()
	})
	_ = v.RegisterValidation("dgte0", func(fl validator.FieldLevel) bool {
		d, ok := decimalField(fl)
		return ok && !d.IsNegative()
	})
	// max 2 decimal places
	_ = v.RegisterValidation("dec2", func(fl validator.FieldLevel) bool {
		d, ok := decimalField(fl)
		return ok && d.Equal(d.Round(2))
	})
	_ = v.RegisterValidation("dec3", func(fl validator.FieldLevel) bool {
		d, ok := decimalField(fl)
		return ok && d.Equal(d.Round(3))
	})

	return &CustomValidator{v: v}
}

func decimalField(fl validator.FieldLevel) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(fl.Field().String())
	return d, err == nil
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "email":
			out = append(out, FieldError{Field: field, Message: "must be a valid email address"})
		case "acct10":
			out = append(out, FieldError{Field: field, Message: "must be a 10-digit account number"})
		case "loannum":
			out = append(out, FieldError{Field: field, Message: "must look like LN followed by 8 digits"})
		case "dpos":
			out = append(out, FieldError{Field: field, Message: "must be greater than zero"})
		case "dgte0":
			out = append(out, FieldError{Field: field, Message: "must not be negative"})
		case "dec2":
			out = append(out, FieldError{Field: field, Message: "must have at most 2 decimal places"})
		case "dec3":
			out = append(out, FieldError{Field: field, Message: "must have at most 3 decimal places"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		case "max":
			out = append(out, FieldError{Field: field, Message: "must be at most " + e.Param() + " characters"})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
