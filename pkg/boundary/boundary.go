// Package boundary finds the instants at which a cyclic index function of
// time last crossed into its current integer value and will next leave it.
//
// The function is sampled at growing offsets from the reference instant
// until the index changes, and the resulting bracket is bisected down to the
// configured tolerance. Brackets that show the function moving backwards
// (a composite signal stalling near zero relative velocity) are resolved by
// a dense linear scan instead of bisection. Every evaluation counts against a
// hard iteration cap; a search that hits the cap or the outer horizon yields
// an open-ended window rather than an error.
package boundary

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// IndexFunc returns the position of a cyclic element at t, in segment units.
// The integer part is the zero-based element index and the fractional part
// is the completed share of that element. Values lie in [0, count).
type IndexFunc func(t time.Time) (float64, error)

// Settings control the search.
type Settings struct {
	Step          time.Duration // coarse sampling step while bracketing
	Tolerance     time.Duration // bracket width at which refinement stops
	Horizon       time.Duration // outer bound on either side of the reference instant
	MaxIterations int           // hard cap on function evaluations per direction
}

// DefaultSettings returns settings suitable for Moon-driven elements.
func DefaultSettings() Settings {
	return Settings{
		Step:          time.Hour,
		Tolerance:     30 * time.Second,
		Horizon:       5 * 24 * time.Hour,
		MaxIterations: 4000,
	}
}

// Validate reports settings that would make the search meaningless.
func (s Settings) Validate() error {
	switch {
	case s.Step <= 0:
		return fmt.Errorf("boundary step must be positive, got %s", s.Step)
	case s.Tolerance <= 0:
		return fmt.Errorf("boundary tolerance must be positive, got %s", s.Tolerance)
	case s.Tolerance > s.Step:
		return fmt.Errorf("boundary tolerance %s exceeds step %s", s.Tolerance, s.Step)
	case s.Horizon < s.Step:
		return fmt.Errorf("boundary horizon %s is shorter than step %s", s.Horizon, s.Step)
	case s.MaxIterations <= 0:
		return fmt.Errorf("boundary max iterations must be positive, got %d", s.MaxIterations)
	}
	return nil
}

// Window is the lifetime of one element around a reference instant.
// A side that could not be located is reported as open and its time is zero.
type Window struct {
	Start     time.Time
	End       time.Time
	StartOpen bool
	EndOpen   bool
}

// Open reports whether either side of the window is unknown.
func (w Window) Open() bool {
	return w.StartOpen || w.EndOpen
}

// Contains reports whether t lies in [Start, End). Open windows contain nothing.
func (w Window) Contains(t time.Time) bool {
	if w.Open() {
		return false
	}
	return !t.Before(w.Start) && t.Before(w.End)
}

// PercentRemaining returns 100 × (End − at) / (End − Start), clamped to
// [0, 100]. The second return value is false when the window is open, in
// which case no percentage should be shown.
func (w Window) PercentRemaining(at time.Time) (float64, bool) {
	if w.Open() {
		return 0, false
	}
	total := w.End.Sub(w.Start)
	if total <= 0 {
		return 0, false
	}
	p := 100 * float64(w.End.Sub(at)) / float64(total)
	return math.Max(0, math.Min(100, p)), true
}

// Locator runs boundary searches. It holds no per-search state and is safe
// for concurrent use.
type Locator struct {
	settings Settings
	logger   *zap.SugaredLogger
}

// NewLocator creates a Locator. A nil logger disables logging.
func NewLocator(settings Settings, logger *zap.SugaredLogger) (*Locator, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Locator{settings: settings, logger: logger}, nil
}

// Settings returns the locator's configuration.
func (l *Locator) Settings() Settings {
	return l.settings
}

// Locate finds the window of the element f is in at the reference instant.
// count is the cycle length of f (30 for tithi, 27 for nakshatra, ...).
// Errors returned by f abort the search and are passed through unchanged.
func (l *Locator) Locate(f IndexFunc, count int, at time.Time) (Window, error) {
	if count <= 0 {
		return Window{}, fmt.Errorf("boundary cycle length must be positive, got %d", count)
	}

	v0, err := f(at)
	if err != nil {
		return Window{}, err
	}

	var w Window

	end, found, err := l.search(f, count, at, v0, forward)
	if err != nil {
		return Window{}, err
	}
	if found {
		w.End = end
	} else {
		w.EndOpen = true
	}

	start, found, err := l.search(f, count, at, v0, backward)
	if err != nil {
		return Window{}, err
	}
	if found {
		w.Start = start
	} else {
		w.StartOpen = true
	}

	if w.Open() {
		l.logger.Debugw("boundary search exhausted",
			"at", at,
			"start_open", w.StartOpen,
			"end_open", w.EndOpen,
			"horizon", l.settings.Horizon)
	}
	return w, nil
}

type direction int

const (
	forward  direction = 1
	backward direction = -1
)

// point is one evaluated sample.
type point struct {
	t time.Time
	v float64
}

// search walks away from the reference instant in one direction. For the
// forward direction it returns the first instant found with a different
// index; for the backward direction the earliest instant found that still
// has the reference index.
func (l *Locator) search(f IndexFunc, count int, at time.Time, v0 float64, dir direction) (time.Time, bool, error) {
	idx0 := math.Floor(v0)
	budget := l.settings.MaxIterations

	inner := point{t: at, v: v0}
	var outer point
	bracketed := false
	monotonic := true

	for offset := l.settings.Step; ; offset += l.settings.Step {
		if offset > l.settings.Horizon {
			offset = l.settings.Horizon
		}
		if budget == 0 {
			return time.Time{}, false, nil
		}
		budget--

		t := at.Add(time.Duration(dir) * offset)
		v, err := f(t)
		if err != nil {
			return time.Time{}, false, err
		}
		if float64(dir)*cyclicDelta(v, inner.v, count) < 0 {
			monotonic = false
		}
		if math.Floor(v) != idx0 {
			outer = point{t: t, v: v}
			bracketed = true
			break
		}
		inner = point{t: t, v: v}
		if offset >= l.settings.Horizon {
			break
		}
	}
	if !bracketed {
		return time.Time{}, false, nil
	}

	if monotonic {
		var ok bool
		var err error
		inner, outer, ok, err = l.bisect(f, count, idx0, inner, outer, dir, &budget)
		if err != nil {
			return time.Time{}, false, err
		}
		if !ok {
			monotonic = false
		}
	}
	if !monotonic {
		var ok bool
		var err error
		inner, outer, ok, err = l.scan(f, idx0, inner, outer, dir, &budget)
		if err != nil {
			return time.Time{}, false, err
		}
		if !ok {
			return time.Time{}, false, nil
		}
	}

	if dir == forward {
		return outer.t, true, nil
	}
	return inner.t, true, nil
}

// bisect narrows [inner, outer] until it is no wider than the tolerance.
// inner always carries the reference index and outer a different one. It
// reports ok=false when a midpoint does not lie between its neighbours,
// meaning the bracket is not monotone and bisection cannot be trusted.
func (l *Locator) bisect(f IndexFunc, count int, idx0 float64, inner, outer point, dir direction, budget *int) (point, point, bool, error) {
	for absDuration(outer.t.Sub(inner.t)) > l.settings.Tolerance {
		if *budget == 0 {
			return inner, outer, false, nil
		}
		*budget--

		mid := inner.t.Add(outer.t.Sub(inner.t) / 2)
		v, err := f(mid)
		if err != nil {
			return inner, outer, false, err
		}

		d := float64(dir)
		if d*cyclicDelta(v, inner.v, count) < 0 || d*cyclicDelta(outer.v, v, count) < 0 {
			return inner, outer, false, nil
		}

		if math.Floor(v) == idx0 {
			inner = point{t: mid, v: v}
		} else {
			outer = point{t: mid, v: v}
		}
	}
	return inner, outer, true, nil
}

// scan walks the bracket from inner towards outer in tolerance-sized steps
// and stops at the first sample whose index differs from the reference.
func (l *Locator) scan(f IndexFunc, idx0 float64, inner, outer point, dir direction, budget *int) (point, point, bool, error) {
	step := time.Duration(dir) * l.settings.Tolerance
	last := inner
	for t := inner.t.Add(step); dir == forward && t.Before(outer.t) || dir == backward && t.After(outer.t); t = t.Add(step) {
		if *budget == 0 {
			return inner, outer, false, nil
		}
		*budget--

		v, err := f(t)
		if err != nil {
			return inner, outer, false, err
		}
		if math.Floor(v) != idx0 {
			return last, point{t: t, v: v}, true, nil
		}
		last = point{t: t, v: v}
	}
	return last, outer, true, nil
}

// cyclicDelta returns a − b folded into (−count/2, count/2].
func cyclicDelta(a, b float64, count int) float64 {
	n := float64(count)
	d := math.Mod(a-b, n)
	if d < 0 {
		d += n
	}
	if d > n/2 {
		d -= n
	}
	return d
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
