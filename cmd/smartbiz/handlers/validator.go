package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	apierr "github.com/smartbiz-gst/smartbiz/pkg/api/types/errors"
)

var (
	gstinPattern   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	phonePattern   = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// Validator validates requests by "validate" struct tags.
//
// Failures are reported as apierr.Validation with the field names used on the wire.
type Validator struct {
	v *validator.Validate
}

var _ echo.Validator = &Validator{}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form", "query", "param"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	for tag, pattern := range map[string]*regexp.Regexp{
		"gstin":   gstinPattern,
		"pincode": pincodePattern,
		"phone":   phonePattern,
	} {
		pattern := pattern
		v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return pattern.MatchString(fl.Field().String())
		})
	}
	return &Validator{v: v}
}

// messenger is a request with human readable messages per field.
type messenger interface {
	ValidationMessages() map[string]string
}

// normalizer is a request to be cleaned up (e.g. trimmed) before validation.
type normalizer interface {
	Normalize()
}

func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}

	verrs := validator.ValidationErrors{}
	if !errors.As(err, &verrs) {
		return err
	}

	messages := map[string]string{}
	if m, ok := i.(messenger); ok {
		messages = m.ValidationMessages()
	}

	fields := make([]apierr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = fmt.Sprintf("Invalid value (%s)", fe.Tag())
		}
		fields = append(fields, apierr.FieldError{Field: fe.Field(), Message: msg})
	}
	return apierr.Validation(fields...)
}

// bind request into req, normalize and validate it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apierr.BadRequest("Invalid request", err)
	}
	if n, ok := req.(normalizer); ok {
		n.Normalize()
	}
	return c.Validate(req)
}
