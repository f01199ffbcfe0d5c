// Package provider builds enum schemas from their input sources: schema
// documents (YAML or JSON) and Go packages annotated with //vartext:
// directives.
package provider

import (
	"context"

	"github.com/vartext/vartext/vartextgen/schema"
)

// Provider builds a schema from one input source. Implementations report
// non-fatal findings as schema warnings rather than errors.
type Provider interface {
	BuildSchema(ctx context.Context) (*schema.Schema, error)
}
