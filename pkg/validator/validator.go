// Package validator decodes JSON request bodies and checks them against
// go-playground/validator tags.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ghuser/itemtracker/pkg/httpx"
)

// Messager lets a request type pick the top-level message of a failed
// validation, e.g. "Item name is required".
type Messager interface {
	ValidationMessage() string
}

const (
	msgInvalidJSON      = "Invalid JSON"
	msgBodyTooLarge     = "Request body too large"
	msgValidationFailed = "Validation failed"
)

// ErrorResponse is the 400 body for a request that decoded but failed its
// tags. Fields is keyed by JSON name.
type ErrorResponse struct {
	Message string            `json:"message" example:"Item name is required"`
	Fields  map[string]string `json:"fields,omitempty"`
} // @name ValidationErrorResponse

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateRequest decodes the body into a T and validates it. On failure it
// writes the response itself and returns ok=false:
//
//	body over the router's limit    413 "Request body too large"
//	malformed or mistyped JSON      400 "Invalid JSON"
//	failed validate tags            400 ErrorResponse
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return nil, false
		}
		httpx.JSONError(w, http.StatusBadRequest, msgInvalidJSON)
		return nil, false
	}

	if err := validate.Struct(&req); err != nil {
		msg := msgValidationFailed
		if m, ok := any(&req).(Messager); ok {
			msg = m.ValidationMessage()
		}
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{
			Message: msg,
			Fields:  fieldErrors(err),
		})
		return nil, false
	}
	return &req, true
}

func fieldErrors(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if fe.Param() == "1" {
			return "Must not be empty"
		}
		return fmt.Sprintf("Minimum length is %s", fe.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", fe.Param())
	default:
		return fmt.Sprintf("Failed the %q rule", fe.Tag())
	}
}
