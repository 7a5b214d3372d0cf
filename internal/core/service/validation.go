package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"

	"github.com/comedor/admin-api/internal/core/domain"
)

const defaultPhoneRegion = "ES"

// inputValidator checks workflow inputs independently of the storage layer.
type inputValidator struct {
	v      *validator.Validate
	region string
}

func newInputValidator(region string) *inputValidator {
	if region == "" {
		region = defaultPhoneRegion
	}
	iv := &inputValidator{v: validator.New(), region: region}
	// Report fields by their json names.
	iv.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = iv.v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		_, ok := iv.parsePhone(fl.Field().String())
		return ok
	})
	return iv
}

// check validates s and wraps every failure in domain.ErrValidation.
func (iv *inputValidator) check(s any) error {
	err := iv.v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

// normalizePhone returns raw in E.164 form, or raw unchanged when it cannot be parsed.
func (iv *inputValidator) normalizePhone(raw string) string {
	if num, ok := iv.parsePhone(raw); ok {
		return phonenumbers.Format(num, phonenumbers.E164)
	}
	return raw
}

func (iv *inputValidator) parsePhone(raw string) (*phonenumbers.PhoneNumber, bool) {
	num, err := phonenumbers.Parse(raw, iv.region)
	if err != nil {
		return nil, false
	}
	return num, phonenumbers.IsValidNumber(num)
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "phone":
		return field + " must be a valid phone number"
	case "mongodb":
		return field + " must be a valid object id"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
