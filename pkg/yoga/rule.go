// Package yoga detects named day combinations ("special yogas") such as
// Amrita Siddhi or Dagdha from a day's weekday, tithi and the nakshatras of
// the Sun and Moon. Rules are declarative records compiled into an
// immutable Catalogue; an Engine evaluates every rule against a Day.
package yoga

import (
	"errors"
	"strings"
)

// Polarity tells whether a yoga is auspicious.
type Polarity string

const (
	Positive Polarity = "positive"
	Negative Polarity = "negative"
)

// CriteriaType selects how a rule's criteria payload is interpreted.
type CriteriaType string

const (
	TypeVaraNakshatra      CriteriaType = "vara+nakshatra"
	TypeTithiVara          CriteriaType = "tithi+vara"
	TypeSunNakshatra       CriteriaType = "sun+nakshatra"
	TypeSunMoonOffset      CriteriaType = "sun+moon-offset"
	TypeTriple             CriteriaType = "triple"
	TypeNakshatraVaraClass CriteriaType = "nakshatra+vara-classification"
	TypeVaraTithiNakshatra CriteriaType = "vara+tithi+nakshatra"
)

// typeAliases accepts the spellings found in older rule tables.
var typeAliases = map[string]CriteriaType{
	"vara+tithi":        TypeTithiVara,
	"vara+tithi_group":  TypeTithiVara,
	"sun+moon":          TypeSunMoonOffset,
	"nakshatra+weekday": TypeNakshatraVaraClass,
}

// canonical returns the type with aliases resolved.
func (t CriteriaType) canonical() CriteriaType {
	s := strings.ToLower(strings.TrimSpace(string(t)))
	if a, ok := typeAliases[s]; ok {
		return a
	}
	return CriteriaType(s)
}

// ErrUnknownType is reported for rules whose criteria type is not known.
var ErrUnknownType = errors.New("unknown criteria type")

// Definition is a rule as read from a rule table, before its criteria
// payload has been checked.
type Definition struct {
	Name        string                 `yaml:"name" json:"name" validate:"required"`
	Sanskrit    string                 `yaml:"sanskrit,omitempty" json:"sanskrit,omitempty"`
	Polarity    Polarity               `yaml:"polarity" json:"polarity" validate:"oneof=positive negative"`
	Type        CriteriaType           `yaml:"type" json:"type" validate:"required"`
	Criteria    map[string]interface{} `yaml:"criteria" json:"criteria" validate:"required"`
	Description string                 `yaml:"description,omitempty" json:"description,omitempty"`
	Color       string                 `yaml:"color,omitempty" json:"color,omitempty"`
	Flags       []string               `yaml:"flags,omitempty" json:"flags,omitempty"`

	// invalid is set when the record itself could not be decoded.
	invalid error
}

// Rule is a compiled, validated Definition.
type Rule struct {
	Name        string
	Sanskrit    string
	Polarity    Polarity
	Criteria    Criteria
	Description string
	Color       string
	Flags       []string
}

// SkippedRule records a definition that was left out of a Catalogue.
type SkippedRule struct {
	Name   string       `json:"name" yaml:"name" msgpack:"name"`
	Type   CriteriaType `json:"type" yaml:"type" msgpack:"type"`
	Reason string       `json:"reason" yaml:"reason" msgpack:"reason"`
}
