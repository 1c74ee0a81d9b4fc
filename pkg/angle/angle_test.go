package angle

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func TestWrap360(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"zero", 0, 0},
		{"inside range", 123.4, 123.4},
		{"exactly 360", 360, 0},
		{"above 360", 725, 5},
		{"negative", -10, 350},
		{"large negative", -730, 350},
		{"tiny negative", -1e-15, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap360(tt.input)
			if math.Abs(got-tt.expected) > 1e-6 {
				t.Errorf("Wrap360(%v) = %v, expected %v", tt.input, got, tt.expected)
			}
			if got < 0 || got >= 360 {
				t.Errorf("Wrap360(%v) = %v, outside [0,360)", tt.input, got)
			}
		})
	}
}

func TestWrap360Periodic(t *testing.T) {
	for x := -720.0; x <= 720.0; x += 17.3 {
		base := Wrap360(x)
		for k := -3; k <= 3; k++ {
			shifted := Wrap360(x + 360*float64(k))
			if math.Abs(shifted-base) > 1e-7 && math.Abs(math.Abs(shifted-base)-360) > 1e-7 {
				t.Errorf("Wrap360(%v + 360*%d) = %v, expected %v", x, k, shifted, base)
			}
		}
	}
}

func TestDiffAndSum(t *testing.T) {
	if got := Diff(200, 105); math.Abs(got-95) > tolerance {
		t.Errorf("Diff(200, 105) = %v, expected 95", got)
	}
	if got := Diff(10, 350); math.Abs(got-20) > tolerance {
		t.Errorf("Diff(10, 350) = %v, expected 20", got)
	}
	if got := Sum(300, 100); math.Abs(got-40) > tolerance {
		t.Errorf("Sum(300, 100) = %v, expected 40", got)
	}
}

func TestSignedDiff(t *testing.T) {
	tests := []struct {
		a, b, expected float64
	}{
		{10, 350, 20},
		{350, 10, -20},
		{180, 0, 180},
		{0, 180, 180},
		{5, 5, 0},
	}
	for _, tt := range tests {
		if got := SignedDiff(tt.a, tt.b); math.Abs(got-tt.expected) > tolerance {
			t.Errorf("SignedDiff(%v, %v) = %v, expected %v", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestSegment(t *testing.T) {
	nak := NakshatraSpan(27)
	tests := []struct {
		name      string
		x         float64
		span      float64
		count     int
		index     int
		remainder float64
	}{
		{"first rashi", 10, RashiSpan, 12, 0, 10},
		{"rashi boundary belongs to next", 30, RashiSpan, 12, 1, 0},
		{"last rashi", 359.5, RashiSpan, 12, 11, 29.5},
		{"tithi from elongation", 95, TithiSpan, 30, 7, 11},
		{"karana", 95, KaranaSpan, 60, 15, 5},
		{"nakshatra 290", 290, nak, 27, 21, 290 - 21*nak},
		{"nakshatra boundary", nak * 3, nak, 27, 3, 0},
		{"wraps negative", -1, RashiSpan, 12, 11, 29},
		{"wraps above cycle", 365, RashiSpan, 12, 0, 5},
		{"pada", 3.5, nak / 4, 4, 1, 3.5 - nak/4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, remainder := Segment(tt.x, tt.span, tt.count)
			if index != tt.index {
				t.Errorf("Segment(%v) index = %d, expected %d", tt.x, index, tt.index)
			}
			if math.Abs(remainder-tt.remainder) > 1e-6 {
				t.Errorf("Segment(%v) remainder = %v, expected %v", tt.x, remainder, tt.remainder)
			}
		})
	}
}

func TestSegmentBounds(t *testing.T) {
	for _, scheme := range []int{27, 28} {
		span := NakshatraSpan(scheme)
		for x := -400.0; x < 800; x += 0.37 {
			index, remainder := Segment(x, span, scheme)
			if index < 0 || index >= scheme {
				t.Fatalf("scheme %d: Segment(%v) index %d out of range", scheme, x, index)
			}
			if remainder < 0 || remainder >= span {
				t.Fatalf("scheme %d: Segment(%v) remainder %v out of range", scheme, x, remainder)
			}
		}
	}
}

func TestProgress(t *testing.T) {
	if got := Progress(95, TithiSpan, 30); math.Abs(got-95.0/12) > tolerance {
		t.Errorf("Progress(95) = %v, expected %v", got, 95.0/12)
	}
	if got := Progress(-12, TithiSpan, 30); math.Abs(got-29) > tolerance {
		t.Errorf("Progress(-12) = %v, expected 29", got)
	}
}
