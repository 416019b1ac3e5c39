package validators

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	// ErrValidation is matched by every structured validation failure
	// ([ValidationError] and [ParamError]) via errors.Is.
	ErrValidation = errors.New("validation failed")
)

// Field error kinds reported in [FieldError.Kind].
const (
	KindRegexp    = "regexp"
	KindMinLength = "minlength"
	KindMaxLength = "maxlength"
	KindInvalid   = "invalid"
)

// Rule names reported in [ParamError.Name].
const (
	RuleRequired = "required"
	RuleEnum     = "enum"
	RuleInvalid  = "invalid"
)

// FieldError describes one offending field of a [ValidationError].
type FieldError struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError is the structured form of a validation failure: one entry
// per offending field, keyed by the field's JSON name.
type ValidationError struct {
	Name    string                `json:"name"`
	Message string                `json:"message"`
	Errors  map[string]FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError() *ValidationError {
	return &ValidationError{
		Name:    "ValidationError",
		Message: "validation failed",
		Errors:  map[string]FieldError{},
	}
}

// ParamError is the flat form of a validation failure naming exactly one
// parameter: a missing required field, a value outside an enum or an invalid
// query parameter.
type ParamError struct {
	Valid   bool   `json:"valid"`
	Name    string `json:"name"`
	Param   string `json:"param"`
	Message string `json:"message"`
}

func (e *ParamError) Error() string {
	return e.Message
}

func (e *ParamError) Is(target error) bool {
	return target == ErrValidation
}

// NewParamError builds a [ParamError] for param violating rule.
func NewParamError(rule, param, format string, args ...any) *ParamError {
	return &ParamError{
		Valid:   false,
		Name:    rule,
		Param:   param,
		Message: fmt.Sprintf(format, args...),
	}
}
