package yoga

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/chrissnell/panchanga/pkg/panchanga"
)

// Criteria is the compiled match condition of a rule. The concrete types
// below are the only implementations.
type Criteria interface {
	Type() CriteriaType
	criteria()
}

type weekdaySet [7]bool

func (s weekdaySet) has(d time.Weekday) bool { return d >= time.Sunday && d <= time.Saturday && s[d] }

// nakshatraSet is indexed by 1-based classic nakshatra number.
type nakshatraSet [28]bool

func (s nakshatraSet) has(n int) bool { return n >= 1 && n <= 27 && s[n] }

// tithiSet is indexed by 1-based tithi number.
type tithiSet [31]bool

func (s tithiSet) has(n int) bool { return n >= 1 && n <= 30 && s[n] }

// VaraNakshatra matches a weekday together with the Moon's nakshatra.
type VaraNakshatra struct {
	weekdays   weekdaySet
	nakshatras nakshatraSet
}

// TithiVara matches a weekday together with a tithi. Any one clause is
// enough.
type TithiVara struct {
	clauses []tithiVaraClause
}

type tithiVaraClause struct {
	weekdays weekdaySet
	tithis   tithiSet
}

// SunNakshatra matches the Sun's nakshatra.
type SunNakshatra struct {
	nakshatras nakshatraSet
}

// SunMoonOffset matches the count of nakshatras from the Sun's to the
// Moon's, modulo 27.
type SunMoonOffset struct {
	offsets [27]bool
}

// Triple maps each weekday to its own set of Moon nakshatras.
type Triple struct {
	byWeekday [7]nakshatraSet
}

// NakshatraVaraClass matches the Moon's nakshatra and labels the match by
// weekday.
type NakshatraVaraClass struct {
	nakshatras      nakshatraSet
	classifications [7]string
}

// VaraTithiNakshatra requires weekday, tithi and Moon nakshatra together.
type VaraTithiNakshatra struct {
	weekdays   weekdaySet
	tithis     tithiSet
	nakshatras nakshatraSet
}

func (VaraNakshatra) Type() CriteriaType      { return TypeVaraNakshatra }
func (TithiVara) Type() CriteriaType          { return TypeTithiVara }
func (SunNakshatra) Type() CriteriaType       { return TypeSunNakshatra }
func (SunMoonOffset) Type() CriteriaType      { return TypeSunMoonOffset }
func (Triple) Type() CriteriaType             { return TypeTriple }
func (NakshatraVaraClass) Type() CriteriaType { return TypeNakshatraVaraClass }
func (VaraTithiNakshatra) Type() CriteriaType { return TypeVaraTithiNakshatra }

func (VaraNakshatra) criteria()      {}
func (TithiVara) criteria()          {}
func (SunNakshatra) criteria()       {}
func (SunMoonOffset) criteria()      {}
func (Triple) criteria()             {}
func (NakshatraVaraClass) criteria() {}
func (VaraTithiNakshatra) criteria() {}

// stringList accepts either a single scalar or a sequence.
type stringList []string

func (s *stringList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var one string
	if err := unmarshal(&one); err == nil {
		*s = stringList{one}
		return nil
	}
	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	*s = many
	return nil
}

type tithiClausePayload struct {
	Weekdays    stringList `yaml:"weekdays"`
	Tithis      []int      `yaml:"tithis"`
	TithiGroups stringList `yaml:"tithi_groups"`
}

// decodeCriteria checks a raw criteria payload against the shape its type
// requires. Unknown keys are errors.
func decodeCriteria(t CriteriaType, raw map[string]interface{}) (Criteria, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing criteria")
	}
	buf, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("re-encoding criteria: %w", err)
	}

	switch t.canonical() {
	case TypeVaraNakshatra:
		var p struct {
			Weekdays   stringList `yaml:"weekdays"`
			Nakshatras stringList `yaml:"nakshatras"`
		}
		if err := yaml.UnmarshalStrict(buf, &p); err != nil {
			return nil, err
		}
		var c VaraNakshatra
		if c.weekdays, err = weekdays(p.Weekdays); err != nil {
			return nil, err
		}
		if c.nakshatras, err = nakshatras(p.Nakshatras); err != nil {
			return nil, err
		}
		return c, nil

	case TypeTithiVara:
		var p struct {
			Weekdays    stringList           `yaml:"weekdays"`
			Tithis      []int                `yaml:"tithis"`
			TithiGroups stringList           `yaml:"tithi_groups"`
			Clauses     []tithiClausePayload `yaml:"clauses"`
		}
		if err := yaml.UnmarshalStrict(buf, &p); err != nil {
			return nil, err
		}
		payloads := p.Clauses
		if len(p.Weekdays) > 0 || len(p.Tithis) > 0 || len(p.TithiGroups) > 0 {
			payloads = append(payloads, tithiClausePayload{Weekdays: p.Weekdays, Tithis: p.Tithis, TithiGroups: p.TithiGroups})
		}
		if len(payloads) == 0 {
			return nil, fmt.Errorf("no clauses")
		}
		var c TithiVara
		for i, cp := range payloads {
			var cl tithiVaraClause
			if cl.weekdays, err = weekdays(cp.Weekdays); err != nil {
				return nil, fmt.Errorf("clause %d: %w", i+1, err)
			}
			if cl.tithis, err = tithis(cp.Tithis, cp.TithiGroups); err != nil {
				return nil, fmt.Errorf("clause %d: %w", i+1, err)
			}
			c.clauses = append(c.clauses, cl)
		}
		return c, nil

	case TypeSunNakshatra:
		var p struct {
			Nakshatras stringList `yaml:"nakshatras"`
		}
		if err := yaml.UnmarshalStrict(buf, &p); err != nil {
			return nil, err
		}
		var c SunNakshatra
		if c.nakshatras, err = nakshatras(p.Nakshatras); err != nil {
			return nil, err
		}
		return c, nil

	case TypeSunMoonOffset:
		var p struct {
			Offsets []int `yaml:"offsets"`
		}
		if err := yaml.UnmarshalStrict(buf, &p); err != nil {
			return nil, err
		}
		if len(p.Offsets) == 0 {
			return nil, fmt.Errorf("missing offsets")
		}
		var c SunMoonOffset
		for _, o := range p.Offsets {
			if o < 0 || o > 26 {
				return nil, fmt.Errorf("offset %d outside 0..26", o)
			}
			c.offsets[o] = true
		}
		return c, nil

	case TypeTriple:
		var p struct {
			Weekdays map[string]stringList `yaml:"weekdays"`
		}
		if err := yaml.UnmarshalStrict(buf, &p); err != nil {
			return nil, err
		}
		if len(p.Weekdays) == 0 {
			return nil, fmt.Errorf("missing weekday table")
		}
		var c Triple
		for name, naks := range p.Weekdays {
			d, ok := panchanga.ParseWeekday(name)
			if !ok {
				return nil, fmt.Errorf("unknown weekday %q", name)
			}
			if c.byWeekday[d], err = nakshatras(naks); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
		return c, nil

	case TypeNakshatraVaraClass:
		var p struct {
			Nakshatras      stringList        `yaml:"nakshatras"`
			Classifications map[string]string `yaml:"classifications"`
		}
		if err := yaml.UnmarshalStrict(buf, &p); err != nil {
			return nil, err
		}
		var c NakshatraVaraClass
		if c.nakshatras, err = nakshatras(p.Nakshatras); err != nil {
			return nil, err
		}
		for name, label := range p.Classifications {
			d, ok := panchanga.ParseWeekday(name)
			if !ok {
				return nil, fmt.Errorf("unknown weekday %q", name)
			}
			c.classifications[d] = label
		}
		return c, nil

	case TypeVaraTithiNakshatra:
		var p struct {
			Weekdays    stringList `yaml:"weekdays"`
			Tithis      []int      `yaml:"tithis"`
			TithiGroups stringList `yaml:"tithi_groups"`
			Nakshatras  stringList `yaml:"nakshatras"`
		}
		if err := yaml.UnmarshalStrict(buf, &p); err != nil {
			return nil, err
		}
		var c VaraTithiNakshatra
		if c.weekdays, err = weekdays(p.Weekdays); err != nil {
			return nil, err
		}
		if c.tithis, err = tithis(p.Tithis, p.TithiGroups); err != nil {
			return nil, err
		}
		if c.nakshatras, err = nakshatras(p.Nakshatras); err != nil {
			return nil, err
		}
		return c, nil
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownType, t)
}

func weekdays(names []string) (weekdaySet, error) {
	var s weekdaySet
	if len(names) == 0 {
		return s, fmt.Errorf("missing weekdays")
	}
	for _, n := range names {
		d, ok := panchanga.ParseWeekday(n)
		if !ok {
			return s, fmt.Errorf("unknown weekday %q", n)
		}
		s[d] = true
	}
	return s, nil
}

func nakshatras(names []string) (nakshatraSet, error) {
	var s nakshatraSet
	if len(names) == 0 {
		return s, fmt.Errorf("missing nakshatras")
	}
	for _, n := range names {
		i := panchanga.NakshatraIndex(n, 27)
		if i == 0 {
			return s, fmt.Errorf("unknown nakshatra %q", n)
		}
		s[i] = true
	}
	return s, nil
}

func tithis(numbers []int, groups []string) (tithiSet, error) {
	var s tithiSet
	if len(numbers) == 0 && len(groups) == 0 {
		return s, fmt.Errorf("missing tithis")
	}
	for _, n := range numbers {
		if n < 1 || n > 30 {
			return s, fmt.Errorf("tithi %d outside 1..30", n)
		}
		s[n] = true
	}
	for _, g := range groups {
		group, ok := panchanga.ParseTithiGroup(g)
		if !ok {
			return s, fmt.Errorf("unknown tithi group %q", g)
		}
		for n := 1; n <= 30; n++ {
			if panchanga.GroupOf(n) == group {
				s[n] = true
			}
		}
	}
	return s, nil
}
