// Package angle implements the circular arithmetic shared by every panchanga
// element: wrapping longitudes into [0,360), angular differences, and
// splitting a longitude into equal segments of a cycle.
package angle

import "math"

// Full circle in degrees
const Full = 360.0

// Remainders this close to the end of a segment are treated as lying on the
// next boundary. Spans such as 360/27 are not exact in binary.
const boundaryEpsilon = 1e-9

// Common segment spans in degrees
const (
	TithiSpan  = 12.0
	KaranaSpan = 6.0
	RashiSpan  = 30.0
)

// Wrap360 wraps an angle to the range [0, 360). Negative inputs are handled
// as a true modulo, so Wrap360(-10) == 350.
func Wrap360(x float64) float64 {
	return Wrap(x, Full)
}

// Wrap wraps x into [0, period).
func Wrap(x, period float64) float64 {
	x = math.Mod(x, period)
	if x < 0 {
		x += period
	}
	// math.Mod of a tiny negative value plus period can round up to period
	if x >= period {
		x = 0
	}
	return x
}

// Diff returns Wrap360(a - b), e.g. the Moon's elongation from the Sun.
func Diff(a, b float64) float64 {
	return Wrap360(a - b)
}

// Sum returns Wrap360(a + b).
func Sum(a, b float64) float64 {
	return Wrap360(a + b)
}

// SignedDiff returns a - b folded into (-180, 180]. Used to unwrap
// longitudes that cross 0° between two nearby samples.
func SignedDiff(a, b float64) float64 {
	d := Wrap360(a - b)
	if d > 180 {
		d -= Full
	}
	return d
}

// Segment splits x into the index of the segment it falls in and the
// remainder within that segment, for a cycle of count segments of width span.
// x is first wrapped into [0, span*count). A value exactly on a boundary
// belongs to the segment that begins there.
func Segment(x, span float64, count int) (index int, remainder float64) {
	total := span * float64(count)
	x = Wrap(x, total)

	index = int(math.Floor(x / span))
	remainder = x - float64(index)*span

	// Guard against floating point drift at the top of the cycle and just
	// below a boundary.
	if index >= count {
		index = count - 1
		remainder = x - float64(index)*span
	}
	if remainder < 0 {
		remainder = 0
	}
	if span-remainder < boundaryEpsilon {
		index = (index + 1) % count
		remainder = 0
	}
	return index, remainder
}

// NakshatraSpan returns the width of one nakshatra for a 27 or 28 scheme.
func NakshatraSpan(scheme int) float64 {
	return Full / float64(scheme)
}

// Progress returns x expressed in units of span, wrapped into [0, count).
// Its integer part is the segment index and its fractional part is the
// completed fraction of that segment.
func Progress(x, span float64, count int) float64 {
	return Wrap(x/span, float64(count))
}
