// Package app wires configuration into the panchanga engines and runs the
// batch queries the command line exposes.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chrissnell/panchanga/pkg/boundary"
	"github.com/chrissnell/panchanga/pkg/chesta"
	"github.com/chrissnell/panchanga/pkg/config"
	"github.com/chrissnell/panchanga/pkg/ephemeris"
	"github.com/chrissnell/panchanga/pkg/panchanga"
	"github.com/chrissnell/panchanga/pkg/solar"
	"github.com/chrissnell/panchanga/pkg/yoga"
)

// App holds the engines built from one configuration. It is safe for
// concurrent use.
type App struct {
	config     *config.ConfigData
	oracle     ephemeris.Oracle
	ayanamsa   ephemeris.Ayanamsa
	calculator *panchanga.Calculator
	engine     *yoga.Engine
	classifier *chesta.Classifier
	logger     *zap.SugaredLogger
}

// Option overrides a component New would otherwise build from config.
type Option func(*options)

type options struct {
	oracle    ephemeris.Oracle
	resolver  panchanga.Resolver
	catalogue *yoga.Catalogue
}

// WithOracle replaces the configured ephemeris.
func WithOracle(o ephemeris.Oracle) Option {
	return func(opts *options) { opts.oracle = o }
}

// WithResolver replaces the solar reference resolver.
func WithResolver(r panchanga.Resolver) Option {
	return func(opts *options) { opts.resolver = r }
}

// WithCatalogue replaces the configured yoga rule source.
func WithCatalogue(c *yoga.Catalogue) Option {
	return func(opts *options) { opts.catalogue = c }
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ayanamsa, err := ephemeris.ParseAyanamsa(cfg.Engine.Ayanamsa)
	if err != nil {
		return nil, err
	}

	oracle := o.oracle
	if oracle == nil {
		if oracle, err = newOracle(cfg.Engine.Ephemeris, ayanamsa); err != nil {
			return nil, err
		}
	}

	locator, err := boundary.NewLocator(boundarySettings(cfg.Engine.Boundary), logger.Named("boundary"))
	if err != nil {
		return nil, fmt.Errorf("invalid boundary settings: %w", err)
	}

	calculator, err := panchanga.NewCalculator(oracle, locator, panchanga.Options{
		Scheme:    cfg.Engine.NakshatraScheme,
		Reference: solar.ReferenceKind(cfg.Engine.Reference),
		Resolver:  o.resolver,
		Logger:    logger.Named("panchanga"),
	})
	if err != nil {
		return nil, err
	}

	catalogue := o.catalogue
	if catalogue == nil {
		catalogue, err = yoga.Load(yoga.Source(cfg.Rules.Source), cfg.Rules.Path, logger.Named("yoga"))
		if err != nil {
			return nil, fmt.Errorf("failed to load yoga rules: %w", err)
		}
	}

	classifier, err := chesta.NewClassifier(nil)
	if err != nil {
		return nil, err
	}

	return &App{
		config:     cfg,
		oracle:     oracle,
		ayanamsa:   ayanamsa,
		calculator: calculator,
		engine:     yoga.NewEngine(catalogue, logger.Named("yoga")),
		classifier: classifier,
		logger:     logger,
	}, nil
}

func newOracle(kind string, ayanamsa ephemeris.Ayanamsa) (ephemeris.Oracle, error) {
	switch kind {
	case "lowprec":
		return ephemeris.NewLowPrecisionOracle(ayanamsa)
	case "meeus", "":
		return ephemeris.NewMeeusOracle(ayanamsa)
	default:
		return nil, fmt.Errorf("unknown ephemeris %q", kind)
	}
}

func boundarySettings(b config.BoundaryData) boundary.Settings {
	return boundary.Settings{
		Step:          time.Duration(b.StepMinutes) * time.Minute,
		Tolerance:     time.Duration(b.ToleranceSeconds) * time.Second,
		Horizon:       time.Duration(b.HorizonDays) * 24 * time.Hour,
		MaxIterations: b.MaxIterations,
	}
}

// Config returns the configuration the app was built from.
func (a *App) Config() *config.ConfigData {
	return a.config
}

// Calculator returns the panchanga calculator.
func (a *App) Calculator() *panchanga.Calculator {
	return a.calculator
}

// Engine returns the yoga engine.
func (a *App) Engine() *yoga.Engine {
	return a.engine
}

// Location returns a configured location by name.
func (a *App) Location(name string) (panchanga.Location, error) {
	l, ok := a.config.Location(name)
	if !ok {
		return panchanga.Location{}, fmt.Errorf("no location named %q in config", name)
	}
	return panchanga.Location{
		Name:      l.Name,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Altitude:  l.Altitude,
		TimeZone:  l.TimeZone,
	}, nil
}
