// Package navatara builds the navatara chakra: the nakshatra cycle split
// into groups of nine taras counted from a start nakshatra.
//
// Nakshatra indices in this package are zero-based positions in the chosen
// scheme's list (see panchanga.Nakshatras27 and panchanga.Nakshatras28).
package navatara

import (
	"fmt"
	"math"

	"github.com/chrissnell/panchanga/pkg/angle"
	"github.com/chrissnell/panchanga/pkg/ephemeris"
	"github.com/chrissnell/panchanga/pkg/panchanga"
)

// Quality is the traditional reading of a tara.
type Quality string

const (
	Mixed       Quality = "mixed"
	Favorable   Quality = "favorable"
	Unfavorable Quality = "unfavorable"
)

// Tara is one of the nine classifications.
type Tara struct {
	Group   int     `json:"group" yaml:"group" msgpack:"group"`
	Name    string  `json:"name" yaml:"name" msgpack:"name"`
	Meaning string  `json:"meaning" yaml:"meaning" msgpack:"meaning"`
	Quality Quality `json:"quality" yaml:"quality" msgpack:"quality"`
}

// Taras is indexed by tara group.
var Taras = [9]Tara{
	{0, "Janma", "birth", Mixed},
	{1, "Sampat", "wealth", Favorable},
	{2, "Vipat", "danger", Unfavorable},
	{3, "Kshema", "well-being", Favorable},
	{4, "Pratyari", "obstacle", Unfavorable},
	{5, "Sadhaka", "achievement", Favorable},
	{6, "Vadha", "destruction", Unfavorable},
	{7, "Mitra", "friend", Favorable},
	{8, "Parama Mitra", "great friend", Favorable},
}

// Metadata below is keyed by the classic 27 index: deity and special tara
// by index mod 9, loka by index / 9.
var (
	lokas = [3]string{"Bhuloka", "Bhuvarloka", "Svarloka"}

	groupDeities = [9]string{
		"Agni", "Vayu", "Surya", "Varuna", "Indra",
		"Vishnu", "Ashwini Kumaras", "Rudra", "Ganesha",
	}

	specialTaras = [9]string{
		"Mangala", "Pitra", "Ati-Mangala", "Mrityu", "Kshipra",
		"Ugra", "Adhi-Mrityu", "Kaal", "Maitri",
	}
)

// Entry is one nakshatra of the chakra.
type Entry struct {
	Position    int    `json:"position" yaml:"position" msgpack:"position"` // 1-based, counted from the start
	Nakshatra   int    `json:"nakshatra" yaml:"nakshatra" msgpack:"nakshatra"`
	Name        string `json:"name" yaml:"name" msgpack:"name"`
	Tara        Tara   `json:"tara" yaml:"tara" msgpack:"tara"`
	Round       int    `json:"round" yaml:"round" msgpack:"round"`
	Loka        string `json:"loka,omitempty" yaml:"loka,omitempty" msgpack:"loka,omitempty"`
	GroupDeity  string `json:"group_deity,omitempty" yaml:"group_deity,omitempty" msgpack:"group_deity,omitempty"`
	SpecialTara string `json:"special_tara,omitempty" yaml:"special_tara,omitempty" msgpack:"special_tara,omitempty"`
}

// Cycle is a navatara chakra for one start nakshatra.
type Cycle struct {
	start   int
	scheme  int
	entries []Entry // indexed by nakshatra
}

// NewCycle builds the chakra starting at nakshatra start in a 27 or 28
// scheme.
func NewCycle(start, scheme int) (*Cycle, error) {
	if scheme != 27 && scheme != 28 {
		return nil, &panchanga.InputError{Field: "scheme", Value: scheme, Reason: "must be 27 or 28"}
	}
	if start < 0 || start >= scheme {
		return nil, &panchanga.InputError{Field: "start", Value: start, Reason: fmt.Sprintf("must be in [0, %d)", scheme)}
	}

	c := &Cycle{start: start, scheme: scheme, entries: make([]Entry, scheme)}
	for n := 0; n < scheme; n++ {
		rel := ((n-start)%scheme + scheme) % scheme
		name := panchanga.NakshatraName(n+1, scheme)
		e := Entry{
			Position:  rel + 1,
			Nakshatra: n,
			Name:      name,
			Tara:      Taras[rel%9],
			Round:     rel/9 + 1,
		}
		if classic := panchanga.NakshatraIndex(name, 27) - 1; classic >= 0 {
			e.Loka = lokas[classic/9]
			e.GroupDeity = groupDeities[classic%9]
			e.SpecialTara = specialTaras[classic%9]
		}
		c.entries[n] = e
	}
	return c, nil
}

// Start returns the start nakshatra index.
func (c *Cycle) Start() int { return c.start }

// Scheme returns 27 or 28.
func (c *Cycle) Scheme() int { return c.scheme }

// Classify returns the entry for nakshatra n.
func (c *Cycle) Classify(n int) (Entry, error) {
	if n < 0 || n >= c.scheme {
		return Entry{}, &panchanga.InputError{Field: "nakshatra", Value: n, Reason: fmt.Sprintf("must be in [0, %d)", c.scheme)}
	}
	return c.entries[n], nil
}

// ClassifyName is Classify by nakshatra name.
func (c *Cycle) ClassifyName(name string) (Entry, error) {
	i := panchanga.NakshatraIndex(name, c.scheme)
	if i == 0 {
		return Entry{}, &panchanga.InputError{Field: "nakshatra", Value: name, Reason: "unknown nakshatra"}
	}
	return c.entries[i-1], nil
}

// Mapping returns every entry in cycle order, beginning with the start
// nakshatra.
func (c *Cycle) Mapping() []Entry {
	out := make([]Entry, 0, c.scheme)
	for i := 0; i < c.scheme; i++ {
		out = append(out, c.entries[(c.start+i)%c.scheme])
	}
	return out
}

// Lagna names the ascendant as the start of a chakra, in place of a body.
const Lagna = "Lagna"

// StartFromSample returns the nakshatra a body occupies in the given
// scheme.
func StartFromSample(s ephemeris.Sample, scheme int) (int, error) {
	return StartFromLongitude(s.Longitude, scheme)
}

// StartFromLongitude returns the nakshatra containing a sidereal longitude,
// such as the lagna, in the given scheme.
func StartFromLongitude(longitude float64, scheme int) (int, error) {
	if scheme != 27 && scheme != 28 {
		return 0, &panchanga.InputError{Field: "scheme", Value: scheme, Reason: "must be 27 or 28"}
	}
	if math.IsNaN(longitude) || math.IsInf(longitude, 0) {
		return 0, &panchanga.InputError{Field: "longitude", Value: longitude, Reason: "must be finite"}
	}
	idx, _ := angle.Segment(longitude, angle.NakshatraSpan(scheme), scheme)
	return idx, nil
}
