package yoga

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Match is one rule that holds on a day. Its window is the whole local
// civil day.
type Match struct {
	Name           string       `json:"name" yaml:"name" msgpack:"name"`
	Sanskrit       string       `json:"sanskrit,omitempty" yaml:"sanskrit,omitempty" msgpack:"sanskrit,omitempty"`
	Polarity       Polarity     `json:"polarity" yaml:"polarity" msgpack:"polarity"`
	Kind           CriteriaType `json:"kind" yaml:"kind" msgpack:"kind"`
	Day            string       `json:"day" yaml:"day" msgpack:"day"`
	Start          time.Time    `json:"start" yaml:"start" msgpack:"start"`
	End            time.Time    `json:"end" yaml:"end" msgpack:"end"`
	Classification string       `json:"classification,omitempty" yaml:"classification,omitempty" msgpack:"classification,omitempty"`
	Description    string       `json:"description,omitempty" yaml:"description,omitempty" msgpack:"description,omitempty"`
	Color          string       `json:"color,omitempty" yaml:"color,omitempty" msgpack:"color,omitempty"`
	Flags          []string     `json:"flags,omitempty" yaml:"flags,omitempty" msgpack:"flags,omitempty"`
}

// Engine evaluates a Catalogue against days.
type Engine struct {
	catalogue *Catalogue
	logger    *zap.SugaredLogger
}

// NewEngine creates an Engine over an already built catalogue.
func NewEngine(catalogue *Catalogue, logger *zap.SugaredLogger) *Engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if catalogue == nil {
		catalogue = &Catalogue{}
	}
	return &Engine{catalogue: catalogue, logger: logger}
}

// Catalogue returns the engine's rules.
func (e *Engine) Catalogue() *Catalogue {
	return e.catalogue
}

// Detect returns every rule that matches day, in catalogue order.
func (e *Engine) Detect(day Day) []Match {
	var matches []Match
	for _, r := range e.catalogue.rules {
		ok, class := e.evaluate(r, day)
		if !ok {
			continue
		}
		matches = append(matches, Match{
			Name:           r.Name,
			Sanskrit:       r.Sanskrit,
			Polarity:       r.Polarity,
			Kind:           r.Criteria.Type(),
			Day:            day.Date.Format(time.DateOnly),
			Start:          day.Date,
			End:            day.Date.AddDate(0, 0, 1),
			Classification: class,
			Description:    r.Description,
			Color:          r.Color,
			Flags:          r.Flags,
		})
	}
	return matches
}

func (e *Engine) evaluate(r Rule, d Day) (bool, string) {
	switch c := r.Criteria.(type) {
	case VaraNakshatra:
		return c.weekdays.has(d.Weekday) && c.nakshatras.has(d.MoonNakshatra), ""
	case TithiVara:
		for _, cl := range c.clauses {
			if cl.weekdays.has(d.Weekday) && cl.tithis.has(d.Tithi) {
				return true, ""
			}
		}
		return false, ""
	case SunNakshatra:
		return c.nakshatras.has(d.SunNakshatra), ""
	case SunMoonOffset:
		if d.SunNakshatra < 1 || d.MoonNakshatra < 1 {
			return false, ""
		}
		off := ((d.MoonNakshatra-d.SunNakshatra)%27 + 27) % 27
		return c.offsets[off], ""
	case Triple:
		if d.Weekday < time.Sunday || d.Weekday > time.Saturday {
			return false, ""
		}
		return c.byWeekday[d.Weekday].has(d.MoonNakshatra), ""
	case NakshatraVaraClass:
		if !c.nakshatras.has(d.MoonNakshatra) {
			return false, ""
		}
		if d.Weekday < time.Sunday || d.Weekday > time.Saturday {
			return true, ""
		}
		return true, c.classifications[d.Weekday]
	case VaraTithiNakshatra:
		return c.weekdays.has(d.Weekday) && c.tithis.has(d.Tithi) && c.nakshatras.has(d.MoonNakshatra), ""
	default:
		e.logger.Warnw("unknown yoga criteria, skipping rule", "rule", r.Name, "criteria", fmt.Sprintf("%T", c))
		return false, ""
	}
}

// Split separates matches by polarity, keeping their order.
func Split(matches []Match) (positive, negative []Match) {
	for _, m := range matches {
		if m.Polarity == Negative {
			negative = append(negative, m)
		} else {
			positive = append(positive, m)
		}
	}
	return positive, negative
}
