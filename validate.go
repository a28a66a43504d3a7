package sessionauth

import (
	"github.com/go-playground/validator/v10"
)

var inputValidator = validator.New()

type signInInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type registerInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type emailInput struct {
	Email string `validate:"required,email"`
}

// confirmationCodeInput enforces the provider's code shape locally, so a
// mistyped code never costs a network round trip.
type confirmationCodeInput struct {
	Code string `validate:"required,len=6,numeric"`
}

func validateInput(input interface{}) error {
	if err := inputValidator.Struct(input); err != nil {
		return ErrInvalidInput
	}
	return nil
}
