package handlers

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/arzan03/UserDirectory/internal/services"
	"github.com/go-playground/validator/v10"
)

var (
	alphaSpaceRegex = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	digitsRegex     = regexp.MustCompile(`^[0-9]+$`)
)

// fieldMessages holds the client-facing message per "field.tag". A "field.*"
// entry covers every tag of that field.
var fieldMessages = map[string]string{
	"name.min":             "Name must be at least 3 characters",
	"name.alphaspace":      "Name must contain only alphabets and spaces",
	"email.*":              "Invalid email format",
	"phone.*":              "Phone must be 10-15 digits",
	"password.required":    "Password is required",
	"password.min":         "Password must be at least 6 characters",
	"password.containsany": "Password must contain at least one digit",
	"address.max":          "Address cannot exceed 150 characters",
	"state.required":       "State is required",
	"city.required":        "City is required",
	"country.required":     "Country is required",
	"pincode.*":            "Pincode must be 4-10 digits",
	"role.*":               "Role must be either user or admin",
	"identifier.required":  "Email or phone is required",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	mustRegister(v, "alphaspace", func(fl validator.FieldLevel) bool {
		return alphaSpaceRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "digits", func(fl validator.FieldLevel) bool {
		return digitsRegex.MatchString(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// validateRequest runs the struct's validate tags and converts failures into
// a *services.ValidationError with one entry per offending field.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &services.ValidationError{}
	for _, fe := range fieldErrs {
		out.Errors = append(out.Errors, services.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe.Field(), fe.Tag()),
		})
	}
	return out
}

func messageFor(field, tag string) string {
	if msg, ok := fieldMessages[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := fieldMessages[field+".*"]; ok {
		return msg
	}
	return field + " is invalid"
}

func trimSpaces(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// optional maps an empty value to nil so the service leaves the field alone.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
