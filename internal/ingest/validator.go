package ingest

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/propdesk/internal/models"
)

// Bounds is the deployment region projects must fall inside.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Result is the outcome of validating one bundle.
type Result struct {
	Errors []string `json:"errors"`
	Valid  bool     `json:"valid"`
}

// rule maps a validator namespace to the message reported for it.
// The order of rules is the order messages are reported in.
type rule struct {
	namespace string
	message   func(fe validator.FieldError, b Bounds) string
}

func fixed(msg string) func(validator.FieldError, Bounds) string {
	return func(validator.FieldError, Bounds) string { return msg }
}

var rules = []rule{
	{"Bundle.Project.Name", fixed("Project name is required")},
	{"Bundle.Project.Developer", fixed("Developer is required")},
	{"Bundle.Project.Region", fixed("Region is required")},
	{"Bundle.Project.PriceDisplay", fixed("Price display is required")},
	{"Bundle.Project.PriceMin", fixed("Minimum price must be greater than 0")},
	{"Bundle.Analysis.TargetCustomerProfile", fixed("Target customer profile is required")},
	{"Bundle.Analysis.ClosingPitch", fixed("Closing pitch is required")},
	{"Bundle.Project.Lat", func(fe validator.FieldError, b Bounds) string {
		return fmt.Sprintf("Latitude %v is outside the allowed range [%v, %v]", fe.Value(), b.MinLat, b.MaxLat)
	}},
	{"Bundle.Project.Lng", func(fe validator.FieldError, b Bounds) string {
		return fmt.Sprintf("Longitude %v is outside the allowed range [%v, %v]", fe.Value(), b.MinLng, b.MaxLng)
	}},
}

// Validator checks bundles against the required-field and region rules.
type Validator struct {
	validate *validator.Validate
	bounds   Bounds
}

// NewValidator creates a Validator for the given region bounds.
func NewValidator(bounds Bounds) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// The bounding box is configuration, so it can't live in struct tags.
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		p, ok := sl.Current().Interface().(models.Project)
		if !ok {
			return
		}
		if p.Lat < bounds.MinLat || p.Lat > bounds.MaxLat {
			sl.ReportError(p.Lat, "Lat", "Lat", "latrange", "")
		}
		if p.Lng < bounds.MinLng || p.Lng > bounds.MaxLng {
			sl.ReportError(p.Lng, "Lng", "Lng", "lngrange", "")
		}
	}, models.Project{})

	return &Validator{validate: v, bounds: bounds}
}

// Validate runs every rule and collects all violations.
func (v *Validator) Validate(bundle *models.Bundle) Result {
	if bundle == nil {
		return Result{Valid: false, Errors: []string{"Row could not be parsed into a project"}}
	}

	err := v.validate.Struct(bundle)
	if err == nil {
		return Result{Valid: true, Errors: []string{}}
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return Result{Valid: false, Errors: []string{err.Error()}}
	}

	byNamespace := make(map[string]validator.FieldError, len(fieldErrors))
	for _, fe := range fieldErrors {
		byNamespace[fe.StructNamespace()] = fe
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, r := range rules {
		if fe, ok := byNamespace[r.namespace]; ok {
			messages = append(messages, r.message(fe, v.bounds))
			delete(byNamespace, r.namespace)
		}
	}
	// Anything not covered by a rule still fails the row.
	for _, fe := range fieldErrors {
		if _, ok := byNamespace[fe.StructNamespace()]; ok {
			messages = append(messages, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}

	return Result{Valid: len(messages) == 0, Errors: messages}
}
