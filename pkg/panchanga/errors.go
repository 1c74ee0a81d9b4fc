package panchanga

import (
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/panchanga/pkg/ephemeris"
)

// ErrKaranaUndefined is returned when a karana index has no table entry.
var ErrKaranaUndefined = errors.New("karana undefined for index")

// InputError reports a request field that was rejected before any
// computation took place.
type InputError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// OracleError wraps a failure of the ephemeris oracle.
type OracleError struct {
	Body ephemeris.Body
	At   time.Time
	Err  error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("ephemeris sample %s at %s: %v", e.Body, e.At.UTC().Format(time.RFC3339), e.Err)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}
