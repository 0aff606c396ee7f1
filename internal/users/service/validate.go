package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MsgCredentialsRequired = "Username and password are required"
	MsgUsernameTooShort    = "Username must be at least 3 characters long"
	MsgWeakPassword        = "Password must contain at least one lowercase letter, one uppercase letter, one number, and be at least 8 characters long"
	MsgEmptyUpdate         = `"value" must have at least 1 key`
)

// MinPasswordLength is the shortest password the "password" rule accepts.
const MinPasswordLength = 8

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	if err := v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// StrongPassword reports whether pw has at least MinPasswordLength
// characters including a lowercase letter, an uppercase letter and a digit.
func StrongPassword(pw string) bool {
	if utf8.RuneCountInString(pw) < MinPasswordLength {
		return false
	}

	var lower, upper, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return lower && upper && digit
}

// validateStruct runs the struct's validate tags and converts the first
// violation to a ValidationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return invalid(fe.Field(), describe(fe))
	}
	return err
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	numeric := isNumber(fe.Kind())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "password":
		return MsgWeakPassword
	case "min":
		switch {
		case field == "username":
			return MsgUsernameTooShort
		case numeric:
			return fmt.Sprintf("%q must be greater than or equal to %s", field, fe.Param())
		default:
			return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
		}
	case "max":
		if numeric {
			return fmt.Sprintf("%q must be less than or equal to %s", field, fe.Param())
		}
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", field, strings.Join(strings.Fields(fe.Param()), ", "))
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
