package provider

import (
	"context"
	"fmt"

	"github.com/vartext/vartext/internal/directive"
	"github.com/vartext/vartext/vartextgen/schema"
)

// SourceProvider builds a schema by scanning a Go package for //vartext:
// directives. The annotated types already exist in the host package, so
// schemas from this provider are meant for methods-only emission, and case
// fields keep their host names verbatim.
type SourceProvider struct {
	// Pattern is the package pattern to scan, as accepted by go list.
	Pattern string

	// Dir is the directory the load runs from. Empty means the current
	// directory.
	Dir string
}

// BuildSchema scans the package and converts its directives to a schema.
// Variants that do not embed vartext.Variant or do not declare their
// sealing method produce warnings, not errors; the generated methods
// compile either way.
func (p *SourceProvider) BuildSchema(ctx context.Context) (*schema.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := directive.ParseDir(p.Pattern, p.Dir)
	if err != nil {
		return nil, err
	}
	if len(res.Variants) == 0 {
		return nil, fmt.Errorf("package %s declares no //vartext:variant types", res.Package)
	}

	s := &schema.Schema{Package: res.Package, Dir: res.Dir}
	index := make(map[string]int, len(res.Variants))
	for _, v := range res.Variants {
		index[v.TypeName] = len(s.Enums)
		s.AddEnum(schema.Enum{Name: v.TypeName})

		if !v.EmbedsVariant {
			s.AddWarning(schema.Warning{
				Code:    "missing_variant_embed",
				Enum:    v.TypeName,
				Message: fmt.Sprintf("%s: variant %s does not embed vartext.Variant", v.Pos, v.TypeName),
			})
		}
		if !hasMarker(v.Methods, directive.MarkerName(v.TypeName)) {
			s.AddWarning(schema.Warning{
				Code:    "unsealed_interface",
				Enum:    v.TypeName,
				Message: fmt.Sprintf("%s: variant %s has no %s method; the interface is not sealed to its package", v.Pos, v.TypeName, directive.MarkerName(v.TypeName)),
			})
		}
	}

	for _, d := range res.Cases {
		owner := d.Of
		if owner == "" {
			if len(res.Variants) > 1 {
				return nil, fmt.Errorf("%s: case %s needs of=...; package %s declares %d variants", d.Pos, d.TypeName, res.Package, len(res.Variants))
			}
			owner = res.Variants[0].TypeName
		}
		i, ok := index[owner]
		if !ok {
			return nil, fmt.Errorf("%s: case %s: of=%s does not name a //vartext:variant type in this package", d.Pos, d.TypeName, owner)
		}
		s.Enums[i].Cases = append(s.Enums[i].Cases, sourceCase(d))
	}

	for _, e := range s.Enums {
		if len(e.Cases) == 0 {
			return nil, fmt.Errorf("variant %s has no //vartext:case types", e.Name)
		}
	}
	return s, nil
}

// sourceCase converts one case directive. An empty struct is a unit case;
// the positional argument binds the host fields by position instead of
// name.
func sourceCase(d directive.Directive) schema.Case {
	var c schema.Case
	switch {
	case len(d.Fields) == 0:
		c = schema.Unit(d.TypeName)
	case d.Positional:
		c = schema.Case{Tag: d.TypeName, Arity: schema.ArityPositional, Fields: hostFields(d)}
	default:
		c = schema.Case{Tag: d.TypeName, Arity: schema.ArityNamed, Fields: hostFields(d)}
	}
	if d.Template != nil {
		c = c.WithTemplate(*d.Template)
	}
	return c
}

// hostFields keeps the struct's declared field names. Positional binding
// pairs placeholders with these fields by declaration order, so the
// synthetic letter names used for document tuples never apply here.
func hostFields(d directive.Directive) []schema.Field {
	fields := make([]schema.Field, len(d.Fields))
	for i, f := range d.Fields {
		fields[i] = schema.Field{Name: f.Name, Type: f.Type}
	}
	return fields
}

func hasMarker(methods []string, marker string) bool {
	for _, m := range methods {
		if m == marker {
			return true
		}
	}
	return false
}
