package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("strongpassword", strongPassword); err != nil {
		panic(err)
	}
	return v
}

// ValidateAndDecode decodes the JSON body into payload and runs the struct validations.
func ValidateAndDecode(r *http.Request, payload interface{}) *AppError {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(payload); err != nil {
		return NewAppError(http.StatusBadRequest, "invalid request body", err)
	}

	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewAppError(http.StatusBadRequest, describe(validationErrors), nil)
		}
		return NewAppError(http.StatusBadRequest, "invalid request body", err)
	}
	return nil
}

func describe(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", fe.Field()))
		case "min", "max", "len":
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		case "eqfield":
			msgs = append(msgs, fmt.Sprintf("%s must match %s", fe.Field(), strings.ToLower(fe.Param()[:1])+fe.Param()[1:]))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "strongpassword":
			msgs = append(msgs, fmt.Sprintf("%s must contain upper and lower case letters, a digit and one of %s", fe.Field(), passwordSpecials))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(msgs, "; ")
}

const passwordSpecials = "@$!%*?&"

// strongPassword requires a lower case letter, an upper case letter, a digit and
// a special character, and allows nothing outside those classes.
func strongPassword(fl validator.FieldLevel) bool {
	var lower, upper, digit, special bool
	for _, r := range fl.Field().String() {
		switch {
		case r <= unicode.MaxASCII && unicode.IsLower(r):
			lower = true
		case r <= unicode.MaxASCII && unicode.IsUpper(r):
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}
