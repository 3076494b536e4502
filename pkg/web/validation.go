// Package web defines the validation error contract shared by all handlers.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterFieldNames makes the validator report fields under their wire
// names, so violation envelopes show "name" rather than "Name".
func RegisterFieldNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("uri"), ",", 2)[0]
		}

		if name == "-" {
			return ""
		}

		return name
	})
}

// Violation is one reported problem with one request field.
//
// It is a sealed union: ConstraintViolation for declarative rule failures
// and BindingViolation for type conversion failures. Nothing else satisfies
// the interface.
type Violation interface {
	detail(objectName string) ViolationDetail
}

// ConstraintViolation records a failed declarative field rule.
type ConstraintViolation struct {
	Field         string
	RejectedValue any
	Code          string
	Message       string
}

func (v ConstraintViolation) detail(objectName string) ViolationDetail {
	return ViolationDetail{
		ObjectName:     objectName,
		Field:          v.Field,
		RejectedValue:  v.RejectedValue,
		Codes:          codeChain(v.Code, objectName, v.Field),
		DefaultMessage: v.Message,
		Code:           v.Code,
	}
}

// BindingViolation records a failed string to Money conversion.
type BindingViolation struct {
	Field         string
	RejectedValue string
}

const bindingCode = "typeMismatch"

func (v BindingViolation) detail(objectName string) ViolationDetail {
	return ViolationDetail{
		ObjectName:    objectName,
		Field:         v.Field,
		RejectedValue: v.RejectedValue,
		Codes:         codeChain(bindingCode, objectName, v.Field),
		DefaultMessage: fmt.Sprintf(
			"Failed to convert value of type 'String' to required type 'Money'; rejected value [%s]",
			v.RejectedValue,
		),
		BindingFailure: true,
		Code:           bindingCode,
	}
}

// ViolationDetail is the wire form of a single violation.
type ViolationDetail struct {
	ObjectName     string   `json:"objectName"`
	Field          string   `json:"field"`
	RejectedValue  any      `json:"rejectedValue"`
	Codes          []string `json:"codes"`
	DefaultMessage string   `json:"defaultMessage"`
	BindingFailure bool     `json:"bindingFailure"`
	Code           string   `json:"code"`
}

// ErrorResponse is the envelope returned for every failed validation.
type ErrorResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Errors    []ViolationDetail `json:"errors"`
	Path      string            `json:"path"`
}

// BuildValidationError assembles one envelope for all violations of a request.
//
// Violations keep their discovery order. The status is always 400; type
// conversion and constraint failures differ only in their violation details.
func BuildValidationError(objectName string, violations []Violation, path string) ErrorResponse {
	details := make([]ViolationDetail, 0, len(violations))
	for _, v := range violations {
		details = append(details, v.detail(objectName))
	}

	return ErrorResponse{
		Timestamp: time.Now(),
		Status:    http.StatusBadRequest,
		Error:     http.StatusText(http.StatusBadRequest),
		Message: fmt.Sprintf("Validation failed for object='%s'. Error count: %d",
			objectName, len(details)),
		Errors: details,
		Path:   path,
	}
}

func codeChain(code, objectName, field string) []string {
	return []string{
		code + "." + objectName + "." + field,
		code + "." + field,
		code,
	}
}

// codeByTag maps binding tags to the constraint codes exposed on the wire.
var codeByTag = map[string]string{
	"required": "NotEmpty",
	"min":      "Min",
	"max":      "Max",
	"gt":       "Positive",
	"oneof":    "Pattern",
	"email":    "Email",
}

// Violations converts binding errors into constraint violations, one per
// failed field, in the order the validator reported them. It returns false
// when err carries no field level information (e.g. malformed JSON).
func Violations(err error) ([]Violation, bool) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, false
	}

	violations := make([]Violation, 0, len(ve))

	for _, fe := range ve {
		code, ok := codeByTag[fe.Tag()]
		if !ok {
			code = capitalize(fe.Tag())
		}

		violations = append(violations, ConstraintViolation{
			Field:         fe.Field(),
			RejectedValue: fe.Value(),
			Code:          code,
			Message:       constraintMessage(fe),
		})
	}

	return violations, true
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "min":
		return "must be greater than or equal to " + fe.Param()
	case "max":
		return "must be less than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is not valid"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}

	return s
}
