package http

import (
	"strings"

	"shopdispatch/internal/pkg/errs"

	validatorv10 "github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to echo.
type Validator struct {
	validate *validatorv10.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validatorv10.New()}
}

// Validate reports every failed field as one validation error.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fields []string
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, fe := range ve {
			fields = append(fields, fe.Field()+" failed "+fe.Tag())
		}
	}
	if len(fields) == 0 {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return errs.NewValueIsInvalidError("request body: " + strings.Join(fields, ", "))
}
