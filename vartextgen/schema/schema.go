// Package schema defines the structural model of a variant type: an enum,
// its ordered cases, their arity class, and their optional display-template
// overrides.
//
// A Schema is constructed once by a provider, validated, and then consumed by
// the emitter as an immutable input. Nothing in this package touches template
// contents; placeholder analysis lives in the binding package.
package schema

// Schema is a complete set of enums to generate, usually the contents of one
// schema document or one scanned Go package.
type Schema struct {
	// Package is the Go package name for generated output. Providers fill it
	// from the document header or the scanned package; generator config may
	// override it.
	Package string

	// Dir is the filesystem directory of the scanned source package, if
	// known. Document schemas leave it empty. The generator uses it to place
	// output next to the annotated declarations.
	Dir string

	// Enums contains the enum definitions in declaration order.
	Enums []Enum

	// Warnings contains non-fatal issues encountered while building the
	// schema, such as reversibility hazards found by the ambiguity check.
	Warnings []Warning
}

// AddEnum appends an enum definition to the schema.
func (s *Schema) AddEnum(e Enum) {
	s.Enums = append(s.Enums, e)
}

// AddWarning appends a warning to the schema.
func (s *Schema) AddWarning(w Warning) {
	s.Warnings = append(s.Warnings, w)
}

// FindEnum looks up an enum by name. Returns nil if not found.
func (s *Schema) FindEnum(name string) *Enum {
	for i := range s.Enums {
		if s.Enums[i].Name == name {
			return &s.Enums[i]
		}
	}
	return nil
}

// Enum is one variant type: a name plus its ordered cases. Declaration order
// is visible in the generated names operation and breaks ties when parse keys
// collide; it has no other semantic weight.
type Enum struct {
	// Name is the enum's Go type name.
	Name string

	// Doc is an optional doc comment body for the generated type.
	Doc string

	// Cases holds the declared cases in declaration order.
	Cases []Case
}

// Case looks up a case by tag. Returns nil if not found.
func (e *Enum) Case(tag string) *Case {
	for i := range e.Cases {
		if e.Cases[i].Tag == tag {
			return &e.Cases[i]
		}
	}
	return nil
}

// AllUnit reports whether every case carries no data. Only all-unit enums are
// eligible for the ambiguity-checked text conversion.
func (e *Enum) AllUnit() bool {
	for _, c := range e.Cases {
		if c.Arity != ArityUnit {
			return false
		}
	}
	return true
}

// Case is one declared case of an enum.
type Case struct {
	// Tag is the case's identifier, unique within the enum.
	Tag string

	// Arity classifies the data the case carries.
	Arity Arity

	// Fields holds the case's fields. Empty for unit cases. For positional
	// cases the names are synthetic letters assigned in sequence; for named
	// cases they are the declared names, unique within the case.
	Fields []Field

	// Template is the explicit display-template override. Nil means "derive
	// the default from the tag"; a non-nil pointer to text equal to that
	// default is still an explicit override. The distinction matters to
	// constant-label classification of named cases.
	Template *string

	// Doc is an optional doc comment body for the generated case type.
	Doc string
}

// HasTemplate reports whether the case carries an explicit override.
func (c *Case) HasTemplate() bool {
	return c.Template != nil
}

// FieldNames returns the case's field names in declaration order.
func (c *Case) FieldNames() []string {
	names := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		names[i] = f.Name
	}
	return names
}

// Field is one data field of a positional or named case.
type Field struct {
	// Name is the field identifier used by placeholder binding.
	Name string

	// Type is the field's Go type expression. Defaults to "string" when a
	// provider leaves it empty.
	Type string
}

// Warning represents a non-fatal issue found while building or analyzing a
// schema.
type Warning struct {
	// Code is a machine-readable warning category.
	Code string

	// Message is the human-readable description.
	Message string

	// Enum names the enum the warning concerns, when applicable.
	Enum string
}

// positionalNames are the synthetic identifiers assigned to positional
// fields, one letter per field in sequence. They are internal substitution
// variables, never user-visible, and cap positional arity at 26.
const positionalNames = "abcdefghijklmnopqrstuvwxyz"

// MaxPositionalFields is the largest positional arity a case may declare.
const MaxPositionalFields = len(positionalNames)

// Unit constructs a case carrying no data.
func Unit(tag string) Case {
	return Case{Tag: tag, Arity: ArityUnit}
}

// Positional constructs a case carrying unnamed fields of the given types,
// bound to template placeholders by position. Fields receive synthetic
// letter names in sequence.
func Positional(tag string, types ...string) Case {
	fields := make([]Field, len(types))
	for i, t := range types {
		name := ""
		if i < MaxPositionalFields {
			name = string(positionalNames[i])
		}
		fields[i] = Field{Name: name, Type: t}
	}
	return Case{Tag: tag, Arity: ArityPositional, Fields: fields}
}

// Named constructs a case carrying named fields.
func Named(tag string, fields ...Field) Case {
	return Case{Tag: tag, Arity: ArityNamed, Fields: fields}
}

// WithTemplate returns a copy of the case carrying an explicit template
// override.
func (c Case) WithTemplate(t string) Case {
	c.Template = &t
	return c
}

// WithDoc returns a copy of the case carrying a doc comment body.
func (c Case) WithDoc(d string) Case {
	c.Doc = d
	return c
}
