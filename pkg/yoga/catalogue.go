package yoga

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// Catalogue is an immutable, compiled set of rules. It is safe for
// concurrent use.
type Catalogue struct {
	rules   []Rule
	skipped []SkippedRule
}

// NewCatalogue compiles definitions in order. Malformed definitions are
// skipped with a warning and recorded in Skipped; so are repeated names.
func NewCatalogue(defs []Definition, logger *zap.SugaredLogger) *Catalogue {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	c := &Catalogue{}
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		r, err := compile(d)
		if err == nil && seen[r.Name] {
			err = fmt.Errorf("duplicate rule name")
		}
		if err != nil {
			c.skipped = append(c.skipped, SkippedRule{Name: d.Name, Type: d.Type, Reason: err.Error()})
			logger.Warnw("skipping malformed yoga rule",
				"rule", d.Name,
				"type", d.Type,
				"reason", err)
			continue
		}
		seen[r.Name] = true
		c.rules = append(c.rules, r)
	}

	logger.Infow("yoga catalogue loaded", "rules", len(c.rules), "skipped", len(c.skipped))
	return c
}

func compile(d Definition) (Rule, error) {
	if d.invalid != nil {
		return Rule{}, d.invalid
	}
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return Rule{}, fmt.Errorf("field %s failed %s", verrs[0].Field(), verrs[0].Tag())
		}
		return Rule{}, err
	}
	crit, err := decodeCriteria(d.Type, d.Criteria)
	if err != nil {
		return Rule{}, err
	}
	return Rule{
		Name:        d.Name,
		Sanskrit:    d.Sanskrit,
		Polarity:    d.Polarity,
		Criteria:    crit,
		Description: d.Description,
		Color:       d.Color,
		Flags:       append([]string(nil), d.Flags...),
	}, nil
}

// Rules returns the compiled rules in definition order.
func (c *Catalogue) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Skipped returns the definitions that did not compile.
func (c *Catalogue) Skipped() []SkippedRule {
	return append([]SkippedRule(nil), c.skipped...)
}

// Len returns the number of usable rules.
func (c *Catalogue) Len() int {
	return len(c.rules)
}
