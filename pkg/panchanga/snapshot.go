package panchanga

import (
	"strconv"
	"time"

	"github.com/chrissnell/panchanga/pkg/boundary"
	"github.com/chrissnell/panchanga/pkg/ephemeris"
	"github.com/chrissnell/panchanga/pkg/solar"
)

// Kind names one of the five panchanga elements.
type Kind string

const (
	KindTithi     Kind = "tithi"
	KindNakshatra Kind = "nakshatra"
	KindKarana    Kind = "karana"
	KindYoga      Kind = "yoga"
	KindVara      Kind = "vara"
)

// Element is one panchanga element in force at the snapshot instant.
// Start, End and Remaining are nil when the boundary search could not
// locate that side of the element's window.
type Element struct {
	Kind      Kind       `json:"kind" yaml:"kind" msgpack:"kind"`
	Index     int        `json:"index" yaml:"index" msgpack:"index"`
	Name      string     `json:"name" yaml:"name" msgpack:"name"`
	Remaining *float64   `json:"remaining,omitempty" yaml:"remaining,omitempty" msgpack:"remaining,omitempty"`
	Start     *time.Time `json:"start,omitempty" yaml:"start,omitempty" msgpack:"start,omitempty"`
	End       *time.Time `json:"end,omitempty" yaml:"end,omitempty" msgpack:"end,omitempty"`
}

func newElement(kind Kind, index int, name string, w boundary.Window, at time.Time) Element {
	e := Element{Kind: kind, Index: index, Name: name}
	if !w.StartOpen {
		start := w.Start
		e.Start = &start
	}
	if !w.EndOpen {
		end := w.End
		e.End = &end
	}
	if p, ok := w.PercentRemaining(at); ok {
		e.Remaining = &p
	}
	return e
}

// Open reports whether either side of the element's window is unknown.
func (e Element) Open() bool {
	return e.Start == nil || e.End == nil
}

// Window returns the element's lifetime as a boundary.Window.
func (e Element) Window() boundary.Window {
	var w boundary.Window
	if e.Start != nil {
		w.Start = *e.Start
	} else {
		w.StartOpen = true
	}
	if e.End != nil {
		w.End = *e.End
	} else {
		w.EndOpen = true
	}
	return w
}

// Tithi is the lunar day.
type Tithi struct {
	Element `yaml:",inline" msgpack:",inline"`
	Paksha  Paksha     `json:"paksha" yaml:"paksha" msgpack:"paksha"`
	Day     int        `json:"day" yaml:"day" msgpack:"day"` // 1..15 within the paksha
	Group   TithiGroup `json:"group" yaml:"group" msgpack:"group"`
}

// Display returns the short form used in calendars, e.g. "S8" or "K3".
func (t Tithi) Display() string {
	prefix := "S"
	if t.Paksha == Krishna {
		prefix = "K"
	}
	return prefix + strconv.Itoa(t.Day)
}

// Nakshatra is the Moon's lunar mansion.
type Nakshatra struct {
	Element `yaml:",inline" msgpack:",inline"`
	Pada    int `json:"pada" yaml:"pada" msgpack:"pada"`
	Scheme  int `json:"scheme" yaml:"scheme" msgpack:"scheme"`
}

// Karana is the half tithi.
type Karana struct {
	Element `yaml:",inline" msgpack:",inline"`
	Fixed   bool `json:"fixed" yaml:"fixed" msgpack:"fixed"`
}

// Vara is the weekday of the local civil date.
type Vara struct {
	Element  `yaml:",inline" msgpack:",inline"`
	Weekday  time.Weekday `json:"-" yaml:"-" msgpack:"-"`
	Sanskrit string       `json:"sanskrit" yaml:"sanskrit" msgpack:"sanskrit"`
}

// Position is one body's sidereal placement.
type Position struct {
	Body          ephemeris.Body `json:"body" yaml:"body" msgpack:"body"`
	Longitude     float64        `json:"longitude" yaml:"longitude" msgpack:"longitude"`
	Velocity      float64        `json:"velocity" yaml:"velocity" msgpack:"velocity"`
	Retrograde    bool           `json:"retrograde" yaml:"retrograde" msgpack:"retrograde"`
	Rashi         int            `json:"rashi" yaml:"rashi" msgpack:"rashi"`
	RashiName     string         `json:"rashi_name" yaml:"rashi_name" msgpack:"rashi_name"`
	RashiDegree   float64        `json:"rashi_degree" yaml:"rashi_degree" msgpack:"rashi_degree"`
	Nakshatra     int            `json:"nakshatra" yaml:"nakshatra" msgpack:"nakshatra"`
	NakshatraName string         `json:"nakshatra_name" yaml:"nakshatra_name" msgpack:"nakshatra_name"`
	Pada          int            `json:"pada" yaml:"pada" msgpack:"pada"`
}

// Snapshot is the panchanga at one instant and place. It is not modified
// after the Calculator returns it.
type Snapshot struct {
	At                time.Time           `json:"at" yaml:"at" msgpack:"at"`
	Location          Location            `json:"location" yaml:"location" msgpack:"location"`
	Reference         solar.ReferenceKind `json:"reference,omitempty" yaml:"reference,omitempty" msgpack:"reference,omitempty"`
	ReferenceFallback bool                `json:"reference_fallback,omitempty" yaml:"reference_fallback,omitempty" msgpack:"reference_fallback,omitempty"`

	Tithi     Tithi     `json:"tithi" yaml:"tithi" msgpack:"tithi"`
	Nakshatra Nakshatra `json:"nakshatra" yaml:"nakshatra" msgpack:"nakshatra"`
	Karana    Karana    `json:"karana" yaml:"karana" msgpack:"karana"`
	Yoga      Element   `json:"yoga" yaml:"yoga" msgpack:"yoga"`
	Vara      Vara      `json:"vara" yaml:"vara" msgpack:"vara"`

	Positions []Position `json:"positions" yaml:"positions" msgpack:"positions"`
}

// Position returns the placement of body, if it was computed.
func (s *Snapshot) Position(body ephemeris.Body) (Position, bool) {
	for _, p := range s.Positions {
		if p.Body == body {
			return p, true
		}
	}
	return Position{}, false
}

// Date returns the local civil date of the snapshot at midnight.
func (s *Snapshot) Date() time.Time {
	return solar.LocalMidnight(s.At, s.At.Location())
}

// Elements returns the five elements in traditional order.
func (s *Snapshot) Elements() []Element {
	return []Element{s.Tithi.Element, s.Vara.Element, s.Nakshatra.Element, s.Yoga, s.Karana.Element}
}
