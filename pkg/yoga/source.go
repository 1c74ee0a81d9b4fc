package yoga

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
	_ "modernc.org/sqlite"
)

//go:embed builtin.yaml
var builtinRules []byte

// Source names where a catalogue's definitions come from.
type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceYAML    Source = "yaml"
	SourceSQLite  Source = "sqlite"
)

// Load reads definitions from source and compiles them. path is ignored for
// the builtin source.
func Load(source Source, path string, logger *zap.SugaredLogger) (*Catalogue, error) {
	var (
		defs []Definition
		err  error
	)
	switch source {
	case SourceBuiltin, "":
		defs, err = BuiltinDefinitions()
	case SourceYAML:
		defs, err = LoadYAMLFile(path)
	case SourceSQLite:
		defs, err = LoadSQLite(path)
	default:
		return nil, fmt.Errorf("unknown rule source %q", source)
	}
	if err != nil {
		return nil, err
	}
	return NewCatalogue(defs, logger), nil
}

// BuiltinDefinitions returns the rule table shipped with the package.
func BuiltinDefinitions() ([]Definition, error) {
	return ParseYAML(builtinRules)
}

// LoadYAMLFile reads a rule table from a YAML file.
func LoadYAMLFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}
	defs, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rule file %s: %w", path, err)
	}
	return defs, nil
}

// ParseYAML parses a document of the form
//
//	rules:
//	  - name: Guru Pushya
//	    polarity: positive
//	    type: vara+nakshatra
//	    criteria: {weekdays: Thursday, nakshatras: [Pushya]}
//
// A rule that cannot be decoded is returned marked invalid so that the
// catalogue skips it; only an unreadable document is an error.
func ParseYAML(data []byte) ([]Definition, error) {
	var doc struct {
		Rules []yaml.MapSlice `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	defs := make([]Definition, 0, len(doc.Rules))
	for i, raw := range doc.Rules {
		defs = append(defs, decodeDefinition(raw, i))
	}
	return defs, nil
}

func decodeDefinition(raw yaml.MapSlice, position int) Definition {
	buf, err := yaml.Marshal(raw)
	if err == nil {
		var d Definition
		if err = yaml.UnmarshalStrict(buf, &d); err == nil {
			return d
		}
	}

	name := fmt.Sprintf("rule #%d", position+1)
	var typ CriteriaType
	for _, item := range raw {
		switch item.Key {
		case "name":
			if s, ok := item.Value.(string); ok && s != "" {
				name = s
			}
		case "type":
			if s, ok := item.Value.(string); ok {
				typ = CriteriaType(s)
			}
		}
	}
	return Definition{Name: name, Type: typ, invalid: err}
}

// LoadSQLite reads definitions from the yoga_rules table of a SQLite
// database. criteria holds a YAML or JSON object and flags a YAML or JSON
// list (a bare string is one flag).
func LoadSQLite(path string) ([]Definition, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	rows, err := db.Query(`
		SELECT name, sanskrit, polarity, type, criteria, description, color, flags
		FROM yoga_rules
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query yoga rules: %w", err)
	}
	defer rows.Close()

	var defs []Definition
	for rows.Next() {
		var (
			name, polarity, typ, criteria    string
			sanskrit, description, color, fl sql.NullString
		)
		if err := rows.Scan(&name, &sanskrit, &polarity, &typ, &criteria, &description, &color, &fl); err != nil {
			return nil, fmt.Errorf("failed to scan yoga rule: %w", err)
		}

		d := Definition{
			Name:        name,
			Sanskrit:    sanskrit.String,
			Polarity:    Polarity(polarity),
			Type:        CriteriaType(typ),
			Description: description.String,
			Color:       color.String,
		}
		if err := yaml.Unmarshal([]byte(criteria), &d.Criteria); err != nil {
			d.invalid = fmt.Errorf("criteria: %w", err)
		}
		if fl.Valid && strings.TrimSpace(fl.String) != "" {
			if err := yaml.Unmarshal([]byte(fl.String), &d.Flags); err != nil {
				d.Flags = []string{fl.String}
			}
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read yoga rules: %w", err)
	}
	return defs, nil
}
