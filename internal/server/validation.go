package server

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError is a rejected request with per-field messages.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for name, msg := range e.Fields {
		fields = append(fields, name+" "+msg)
	}
	sort.Strings(fields)
	return e.Message + ": " + strings.Join(fields, "; ")
}

// listRequest addresses a category listing.
type listRequest struct {
	MediaType string `json:"mediaType" validate:"required,oneof=movie tv"`
	Category  string `json:"category" validate:"required,max=32"`
	Page      int    `json:"page" validate:"gte=1,lte=10"`
}

// genreRequest addresses a genre page.
type genreRequest struct {
	MediaType string `json:"mediaType" validate:"required,oneof=movie tv"`
	Slug      string `json:"slug" validate:"required,max=100"`
	Page      int    `json:"page" validate:"gte=1,lte=10"`
}

// directoryRequest addresses the genre directory of a kind.
type directoryRequest struct {
	MediaType string `json:"mediaType" validate:"required,oneof=movie tv"`
}

// requestValidator wraps go-playground/validator and reports fields by their JSON names.
type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &requestValidator{v: v}
}

// Validate checks s and returns a *ValidationError when it is rejected.
func (rv *requestValidator) Validate(s any) error {
	err := rv.v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fields[e.Field()] = friendlyMessage(e)
	}
	return &ValidationError{Message: "validation failed", Fields: fields}
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}
