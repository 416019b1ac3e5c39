package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/go-playground/validator/v10"
)

// UserValidator validates user payloads with struct tags.
//
// Missing required fields and enum violations are reported as a flat
// [ParamError] naming the first offending field. Every other violation is
// collected into a [ValidationError] with one entry per field.
type UserValidator struct {
	validate *validator.Validate
}

func NewUserValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation(tagMaxBytes, maxBytes)

	return &UserValidator{validate: v}
}

// tagMaxBytes bounds the encoded length of a string. bcrypt limits its input
// to 72 bytes, which fewer than 72 multibyte characters can exceed.
const tagMaxBytes = "maxbytes"

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Validate checks a user payload. When fields are given, only violations on
// those JSON fields are reported.
func (v *UserValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch obj.(type) {
	case models.CreateUserInput, *models.CreateUserInput,
		models.UpdateUserInput, *models.UpdateUserInput,
		models.ChangePasswordInput, *models.ChangePasswordInput:
	default:
		return ErrUnsupportedType
	}

	if err := checkFields(obj, fields); err != nil {
		return err
	}

	err := v.validate.StructCtx(ctx, obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("error validating %T: %w", obj, err)
	}

	return translate(verrs, fields)
}

func translate(verrs validator.ValidationErrors, fields []string) error {
	selected := make([]validator.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		if len(fields) == 0 || slices.Contains(fields, fe.Field()) {
			selected = append(selected, fe)
		}
	}

	for _, fe := range selected {
		switch fe.Tag() {
		case "required":
			return NewParamError(RuleRequired, fe.Field(), "%s is required", fe.Field())
		case "oneof":
			return NewParamError(RuleEnum, fe.Field(), "%s must be one of: %s",
				fe.Field(), strings.Join(strings.Fields(fe.Param()), ", "))
		}
	}

	verr := newValidationError()
	names := make([]string, 0, len(selected))
	for _, fe := range selected {
		name := fe.Field()
		if _, seen := verr.Errors[name]; seen {
			continue
		}
		verr.Errors[name] = FieldError{
			Kind:    kindOf(fe.Tag()),
			Path:    name,
			Message: messageOf(fe),
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		return nil
	}

	verr.Message = "invalid " + strings.Join(names, ", ")
	return verr
}

func kindOf(tag string) string {
	switch tag {
	case "email":
		return KindRegexp
	case "min":
		return KindMinLength
	case "max", tagMaxBytes:
		return KindMaxLength
	default:
		return KindInvalid
	}
}

func messageOf(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
	case tagMaxBytes:
		return fmt.Sprintf("%s must be at most %s bytes long", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// checkFields rejects field names that the payload does not declare.
func checkFields(obj any, fields []string) error {
	if len(fields) == 0 {
		return nil
	}

	known := jsonFieldsOf(reflect.TypeOf(obj))
	for _, f := range fields {
		if !slices.Contains(known, f) {
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}
	return nil
}

func jsonFieldsOf(t reflect.Type) []string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	names := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		if name := jsonFieldName(t.Field(i)); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}
