package validator

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	usecasecontract "github.com/mikiasgoitom/Pawgram/internal/usecase/contract"
)

// AppValidator implements the usecase IValidator interface.
type AppValidator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator that implements the usecase IValidator interface.
func NewValidator() usecasecontract.IValidator {
	v := validator.New()
	return &AppValidator{validate: v}
}

// ValidateStruct validates a struct against its validation tags.
func (av *AppValidator) ValidateStruct(v interface{}) error {
	return av.validate.Struct(v)
}

// ValidateSortMode checks that mode names a known sort mode.
func (av *AppValidator) ValidateSortMode(mode string) error {
	switch usecasecontract.SortMode(mode) {
	case usecasecontract.SortModeRecency, usecasecontract.SortModeRating, usecasecontract.SortModeBestFit:
		return nil
	}
	return fmt.Errorf("unknown sort mode %q", mode)
}

// RegisterCustomValidators registers custom validation functions with the Gin validator.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("sortmode", sortModeFL)
	}
}

func sortModeFL(fl validator.FieldLevel) bool {
	switch usecasecontract.SortMode(fl.Field().String()) {
	case usecasecontract.SortModeRecency, usecasecontract.SortModeRating, usecasecontract.SortModeBestFit:
		return true
	}
	return false
}
