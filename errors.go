package vartext

import (
	"fmt"
	"strings"
)

// ParseError reports that a text input matched no parse key of a variant
// type. Generated Parse functions return it for unknown input.
type ParseError struct {
	// Type is the variant type's name.
	Type string

	// Input is the rejected text, verbatim.
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s variant: %q", e.Type, e.Input)
}

// Collision is a group of cases whose effective templates resolve to the
// same text, making text conversion unable to tell them apart.
type Collision struct {
	// Text is the shared effective template.
	Text string

	// Tags are the case tags sharing Text, in declaration order.
	Tags []string
}

func (c Collision) String() string {
	return fmt.Sprintf("%q shared by %s", c.Text, strings.Join(c.Tags, ", "))
}

// AmbiguityError reports that a variant type's text form is not reversible.
// Generated FromText functions return it for every input when any two cases
// share an effective template.
type AmbiguityError struct {
	// Type is the variant type's name.
	Type string

	// Collisions holds every colliding template with the tags sharing it.
	Collisions []Collision
}

func (e *AmbiguityError) Error() string {
	parts := make([]string, len(e.Collisions))
	for i, c := range e.Collisions {
		parts[i] = c.String()
	}
	return fmt.Sprintf("ambiguous %s templates: %s", e.Type, strings.Join(parts, "; "))
}
