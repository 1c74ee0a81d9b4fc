// Package responseformat encodes results as JSON, YAML or MessagePack.
package responseformat

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v2"
)

// Format names an output encoding.
type Format string

const (
	JSON    Format = "json"
	YAML    Format = "yaml"
	MsgPack Format = "msgpack"
	Text    Format = "text" // rendered by the caller; not encoded here
)

// ParseFormat resolves a format name. "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case JSON, YAML, MsgPack, Text:
		return f, nil
	case "yml":
		return YAML, nil
	case "":
		return JSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json, yaml, msgpack or text)", name)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case YAML:
		return "application/yaml"
	case MsgPack:
		return "application/x-msgpack"
	case Text:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Formatter handles encoding and writing results
type Formatter struct {
	indent string
}

// NewFormatter creates a new formatter. JSON output is indented by two
// spaces.
func NewFormatter() *Formatter {
	return &Formatter{indent: "  "}
}

// Write encodes data to w in the given format.
func (f *Formatter) Write(w io.Writer, format Format, data any) error {
	switch format {
	case JSON, "":
		return f.writeJSON(w, data)
	case YAML:
		return f.writeYAML(w, data)
	case MsgPack:
		return f.writeMsgPack(w, data)
	default:
		return fmt.Errorf("format %q cannot be encoded", format)
	}
}

func (f *Formatter) writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", f.indent)
	return enc.Encode(data)
}

func (f *Formatter) writeYAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

func (f *Formatter) writeMsgPack(w io.Writer, data any) error {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	return enc.Encode(data)
}
