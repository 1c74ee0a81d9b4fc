// Package config loads engine settings, named locations and the yoga rule
// source from YAML or SQLite.
package config

import (
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration, with defaults applied and validated
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetEngine() (*EngineData, error)
	GetLocations() ([]LocationData, error)
	GetRules() (*RulesData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Engine    EngineData     `json:"engine" yaml:"engine"`
	Locations []LocationData `json:"locations,omitempty" yaml:"locations,omitempty" validate:"dive"`
	Rules     RulesData      `json:"rules" yaml:"rules"`
}

// EngineData selects the ephemeris and derivation settings.
type EngineData struct {
	Ayanamsa        string       `json:"ayanamsa" yaml:"ayanamsa" default:"lahiri" validate:"oneof=lahiri raman krishnamurti fagan_bradley"`
	Ephemeris       string       `json:"ephemeris" yaml:"ephemeris" default:"meeus" validate:"oneof=meeus lowprec"`
	NakshatraScheme int          `json:"nakshatra_scheme" yaml:"nakshatra_scheme" default:"27" validate:"oneof=27 28"`
	Reference       string       `json:"reference" yaml:"reference" default:"sunrise" validate:"oneof=sunrise sunset noon midnight"`
	Boundary        BoundaryData `json:"boundary" yaml:"boundary"`
	Concurrency     int          `json:"concurrency" yaml:"concurrency" default:"4" validate:"gte=1,lte=64"`
}

// BoundaryData tunes the element boundary search.
type BoundaryData struct {
	StepMinutes      int `json:"step_minutes" yaml:"step_minutes" default:"60" validate:"gte=1,lte=1440"`
	ToleranceSeconds int `json:"tolerance_seconds" yaml:"tolerance_seconds" default:"30" validate:"gte=1,lte=3600"`
	HorizonDays      int `json:"horizon_days" yaml:"horizon_days" default:"5" validate:"gte=1,lte=60"`
	MaxIterations    int `json:"max_iterations" yaml:"max_iterations" default:"4000" validate:"gte=10"`
}

// LocationData is a named observer location.
type LocationData struct {
	Name      string  `json:"name" yaml:"name" validate:"required"`
	Latitude  float64 `json:"latitude" yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" yaml:"longitude" validate:"gte=-180,lte=180"`
	Altitude  float64 `json:"altitude,omitempty" yaml:"altitude,omitempty" validate:"gte=-500,lte=9000"`
	TimeZone  string  `json:"timezone" yaml:"timezone" validate:"required,timezone"`
}

// RulesData selects where the yoga catalogue comes from.
type RulesData struct {
	Source string `json:"source" yaml:"source" default:"builtin" validate:"oneof=builtin yaml sqlite"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty" validate:"required_unless=Source builtin"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns a configuration holding only defaults.
func Default() *ConfigData {
	cfg := &ConfigData{}
	// Struct tags are static; Set only fails on malformed tags.
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// Finalize applies defaults to unset fields and validates the result.
func Finalize(cfg *ConfigData) error {
	if err := defaults.Set(cfg); err != nil {
		return fmt.Errorf("failed to apply config defaults: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return validationError(err)
	}

	seen := make(map[string]bool, len(cfg.Locations))
	for _, l := range cfg.Locations {
		if seen[l.Name] {
			return fmt.Errorf("invalid config: duplicate location %q", l.Name)
		}
		seen[l.Name] = true
	}
	return nil
}

// Location returns the named location.
func (c *ConfigData) Location(name string) (LocationData, bool) {
	for _, l := range c.Locations {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return LocationData{}, false
}

func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Namespace(), getErrorMessage(fe)))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_unless":
		return "is required for this source"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "timezone":
		return "must be an IANA time zone"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// NewProvider opens the provider for backend, "yaml" or "sqlite".
func NewProvider(backend, path string) (ConfigProvider, error) {
	switch backend {
	case "yaml", "":
		return NewYAMLProvider(path), nil
	case "sqlite":
		return NewSQLiteProvider(path)
	default:
		return nil, fmt.Errorf("unknown config backend %q (want yaml or sqlite)", backend)
	}
}
