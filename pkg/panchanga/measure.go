package panchanga

import (
	"fmt"
	"time"

	"github.com/chrissnell/panchanga/pkg/angle"
	"github.com/chrissnell/panchanga/pkg/boundary"
)

// measure describes how one element is read off the Sun and Moon.
type measure struct {
	kind  Kind
	span  float64
	count int
	value func(sun, moon float64) float64
}

func elongation(sun, moon float64) float64 { return angle.Diff(moon, sun) }
func moonOnly(_, moon float64) float64     { return moon }

func (c *Calculator) measure(k Kind) measure {
	switch k {
	case KindTithi:
		return measure{kind: k, span: angle.TithiSpan, count: 30, value: elongation}
	case KindKarana:
		return measure{kind: k, span: angle.KaranaSpan, count: 60, value: elongation}
	case KindNakshatra:
		return measure{kind: k, span: angle.NakshatraSpan(c.scheme), count: c.scheme, value: moonOnly}
	case KindYoga:
		return measure{kind: k, span: angle.NakshatraSpan(27), count: 27, value: angle.Sum}
	}
	panic(fmt.Sprintf("panchanga: no measure for %s", k))
}

// position returns the zero-based element index and the remainder within it.
func (m measure) position(sun, moon float64) (int, float64) {
	return angle.Segment(m.value(sun, moon), m.span, m.count)
}

// indexFunc exposes the measure as a continuous function of time for the
// boundary locator.
func (c *Calculator) indexFunc(m measure) boundary.IndexFunc {
	return func(t time.Time) (float64, error) {
		sun, moon, err := c.luminaries(t)
		if err != nil {
			return 0, err
		}
		idx, rem := m.position(sun.Longitude, moon.Longitude)
		return float64(idx) + rem/m.span, nil
	}
}

// element locates the window of the element at index idx (zero-based).
func (c *Calculator) element(m measure, idx int, name string, at time.Time) (Element, error) {
	w, err := c.locator.Locate(c.indexFunc(m), m.count, at)
	if err != nil {
		return Element{}, err
	}
	return newElement(m.kind, idx+1, name, w, at), nil
}
