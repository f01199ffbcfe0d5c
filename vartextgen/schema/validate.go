package schema

import (
	"fmt"
	"go/token"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the schema for structural issues.
// Returns all validation errors found (not just the first).
// Template contents are not inspected here; placeholder problems surface
// from the binding package at generation time.
func (s *Schema) Validate() []error {
	var errs []*ValidationError

	if s.Package != "" && !token.IsIdentifier(s.Package) {
		errs = append(errs, &ValidationError{
			Code:    "bad_package",
			Message: fmt.Sprintf("package name %q is not a valid Go identifier", s.Package),
		})
	}

	enumNames := make(map[string]bool)
	for i := range s.Enums {
		e := &s.Enums[i]
		if enumNames[e.Name] {
			errs = append(errs, &ValidationError{
				Code:    "duplicate_enum",
				Message: "duplicate enum name: " + e.Name,
			})
		}
		enumNames[e.Name] = true
		errs = append(errs, e.validate()...)
	}

	result := make([]error, 0, len(errs))
	for _, e := range errs {
		result = append(result, e)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func (e *Enum) validate() []*ValidationError {
	var errs []*ValidationError

	if e.Name == "" {
		errs = append(errs, &ValidationError{
			Code:    "missing_name",
			Message: "enum has no name",
		})
	} else if !token.IsIdentifier(e.Name) {
		errs = append(errs, &ValidationError{
			Code:    "bad_name",
			Message: fmt.Sprintf("enum name %q is not a valid Go identifier", e.Name),
		})
	}

	tags := make(map[string]bool)
	for i := range e.Cases {
		c := &e.Cases[i]
		if c.Tag == "" {
			errs = append(errs, &ValidationError{
				Code:    "missing_tag",
				Message: fmt.Sprintf("enum %s: case %d has no tag", e.Name, i),
			})
			continue
		}
		if !token.IsIdentifier(c.Tag) {
			errs = append(errs, &ValidationError{
				Code:    "bad_tag",
				Message: fmt.Sprintf("enum %s: case tag %q is not a valid Go identifier", e.Name, c.Tag),
			})
		}
		if tags[c.Tag] {
			errs = append(errs, &ValidationError{
				Code:    "duplicate_tag",
				Message: fmt.Sprintf("enum %s: duplicate case tag %s", e.Name, c.Tag),
			})
		}
		tags[c.Tag] = true

		errs = append(errs, c.validate(e.Name)...)
	}

	return errs
}

func (c *Case) validate(enum string) []*ValidationError {
	var errs []*ValidationError

	switch c.Arity {
	case ArityUnit:
		if len(c.Fields) > 0 {
			errs = append(errs, &ValidationError{
				Code:    "unit_with_fields",
				Message: fmt.Sprintf("enum %s: unit case %s must not declare fields", enum, c.Tag),
			})
		}

	case ArityPositional:
		if len(c.Fields) > MaxPositionalFields {
			errs = append(errs, &ValidationError{
				Code:    "too_many_fields",
				Message: fmt.Sprintf("enum %s: positional case %s declares %d fields, limit is %d", enum, c.Tag, len(c.Fields), MaxPositionalFields),
			})
		}

	case ArityNamed:
		names := make(map[string]bool)
		for _, f := range c.Fields {
			if f.Name == "" {
				errs = append(errs, &ValidationError{
					Code:    "missing_field_name",
					Message: fmt.Sprintf("enum %s: named case %s has a field with no name", enum, c.Tag),
				})
				continue
			}
			if !token.IsIdentifier(f.Name) {
				errs = append(errs, &ValidationError{
					Code:    "bad_field_name",
					Message: fmt.Sprintf("enum %s: case %s field name %q is not a valid Go identifier", enum, c.Tag, f.Name),
				})
			}
			if names[f.Name] {
				errs = append(errs, &ValidationError{
					Code:    "duplicate_field",
					Message: fmt.Sprintf("enum %s: case %s declares field %s more than once", enum, c.Tag, f.Name),
				})
			}
			names[f.Name] = true
		}

	default:
		errs = append(errs, &ValidationError{
			Code:    "bad_arity",
			Message: fmt.Sprintf("enum %s: case %s has unknown arity %d", enum, c.Tag, int(c.Arity)),
		})
	}

	return errs
}
