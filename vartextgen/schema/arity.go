package schema

import "fmt"

// Arity classifies the data a case carries.
type Arity int

const (
	// ArityUnit marks a case with no data.
	ArityUnit Arity = iota

	// ArityPositional marks a case with unnamed fields accessed by position.
	ArityPositional

	// ArityNamed marks a case with named fields.
	ArityNamed
)

// String returns the arity's text form.
func (a Arity) String() string {
	switch a {
	case ArityUnit:
		return "unit"
	case ArityPositional:
		return "positional"
	case ArityNamed:
		return "named"
	default:
		return fmt.Sprintf("Arity(%d)", int(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Arity) MarshalText() ([]byte, error) {
	switch a {
	case ArityUnit, ArityPositional, ArityNamed:
		return []byte(a.String()), nil
	}
	return nil, fmt.Errorf("unknown arity value %d", int(a))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Arity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "unit":
		*a = ArityUnit
	case "positional":
		*a = ArityPositional
	case "named":
		*a = ArityNamed
	default:
		return fmt.Errorf("unknown arity %q", text)
	}
	return nil
}
