package panchanga

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/chrissnell/panchanga/pkg/ephemeris"
	"github.com/chrissnell/panchanga/pkg/solar"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// Location is an observer on the Earth. Longitude is east positive and
// altitude is in metres.
type Location struct {
	Name      string  `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Latitude  float64 `json:"latitude" yaml:"latitude" msgpack:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" yaml:"longitude" msgpack:"longitude" validate:"gte=-180,lte=180"`
	Altitude  float64 `json:"altitude" yaml:"altitude" msgpack:"altitude" validate:"gte=-500,lte=9000"`
	TimeZone  string  `json:"timezone" yaml:"timezone" msgpack:"timezone" validate:"required,timezone"`
}

// Zone loads the location's IANA time zone.
func (l Location) Zone() (*time.Location, error) {
	z, err := time.LoadLocation(l.TimeZone)
	if err != nil {
		return nil, &InputError{Field: "timezone", Value: l.TimeZone, Reason: err.Error()}
	}
	return z, nil
}

// Validate checks the location and returns an *InputError naming the first
// offending field.
func (l Location) Validate() error {
	return inputError(validate.Struct(l))
}

// Request asks for the panchanga of one civil date at one place.
type Request struct {
	// Date selects the civil day; only its year, month and day in the
	// location's time zone are used.
	Date      time.Time           `json:"date" validate:"required"`
	Location  Location            `json:"location"`
	Reference solar.ReferenceKind `json:"reference,omitempty" validate:"omitempty,oneof=sunrise sunset noon midnight"`
	// Bodies adds positions for further bodies. Sun and Moon are always
	// reported.
	Bodies []ephemeris.Body `json:"bodies,omitempty"`
}

// Validate checks the request and returns an *InputError naming the first
// offending field.
func (r Request) Validate() error {
	if r.Date.IsZero() {
		return &InputError{Field: "date", Value: r.Date, Reason: "is required"}
	}
	if err := inputError(validate.Struct(r)); err != nil {
		return err
	}
	for _, b := range r.Bodies {
		if !b.Valid() {
			return &InputError{Field: "bodies", Value: b, Reason: "unknown body"}
		}
	}
	return nil
}

// inputError converts validator output into an *InputError.
func inputError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &InputError{Field: "request", Reason: err.Error()}
	}
	fe := verrs[0]
	return &InputError{Field: fieldPath(fe), Value: fe.Value(), Reason: reason(fe)}
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "timezone":
		return "must be an IANA time zone"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
