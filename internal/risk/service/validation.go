package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"unicode/utf8"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)

var validate = newValidator()

// newValidator reads human field names from the "label" tag so failures can
// be reported as "Name must have at least 5 characters".
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	_ = v.RegisterValidation("emailfmt", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("level", func(fl validator.FieldLevel) bool {
		return domain.Classification(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("cca3", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) == 3
	})
	return v
}

// check validates s and converts the first failure into a ValidationError.
func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	return invalid(describe(errs[0]))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		if fe.Kind() == reflect.String {
			unit := "characters"
			if fe.Param() == "1" {
				unit = "character"
			}
			return fmt.Sprintf("%s must have at least %s %s", fe.Field(), fe.Param(), unit)
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "emailfmt":
		return "Invalid email format"
	case "level":
		return levelMessage(fe.Field())
	case "cca3":
		return fe.Field() + " must have 3 characters"
	case "required":
		return fe.Field() + " is required"
	}
	return fe.Field() + " is invalid"
}
