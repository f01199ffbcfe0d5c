package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vartext/vartext/vartextgen/schema"
)

var validate = validator.New()

// DocumentProvider reads enums from a schema document. The file extension
// selects the codec: .json is parsed as JSON, everything else as YAML.
// Unknown keys are rejected in both codecs.
type DocumentProvider struct {
	// Path is the document to read.
	Path string
}

// document is the on-disk shape of a schema document.
type document struct {
	Package string    `yaml:"package" json:"package" validate:"required"`
	Enums   []docEnum `yaml:"enums" json:"enums" validate:"required,min=1,dive"`
}

type docEnum struct {
	Name  string    `yaml:"name" json:"name" validate:"required"`
	Doc   string    `yaml:"doc" json:"doc"`
	Cases []docCase `yaml:"cases" json:"cases" validate:"required,min=1,dive"`
}

type docCase struct {
	Tag string `yaml:"tag" json:"tag" validate:"required"`

	// Template is the display-template override. Absent means "derive from
	// the tag"; present-but-equal-to-the-tag is still an override.
	Template *string `yaml:"template" json:"template"`

	// Tuple declares positional fields by type. Mutually exclusive with
	// Fields.
	Tuple []string `yaml:"tuple" json:"tuple"`

	// Fields declares named fields. An explicit empty list ("fields: []",
	// distinct from leaving the key out) declares a named case with no
	// fields: a constant label that still takes part in parsing.
	Fields []docField `yaml:"fields" json:"fields" validate:"dive"`

	Doc string `yaml:"doc" json:"doc"`
}

type docField struct {
	Name string `yaml:"name" json:"name" validate:"required"`
	Type string `yaml:"type" json:"type"`
}

// BuildSchema reads, decodes and validates the document, then converts it
// to a schema.
func (p *DocumentProvider) BuildSchema(ctx context.Context) (*schema.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("document %s is empty", p.Path)
	}

	var doc document
	if strings.EqualFold(filepath.Ext(p.Path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", p.Path, err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", p.Path, err)
		}
	}

	if err := validate.Struct(doc); err != nil {
		return nil, p.usageError(err)
	}

	s := &schema.Schema{Package: doc.Package}
	for _, de := range doc.Enums {
		e := schema.Enum{Name: de.Name, Doc: de.Doc}
		for _, dc := range de.Cases {
			c, err := dc.toCase()
			if err != nil {
				return nil, fmt.Errorf("document %s: enum %s: %w", p.Path, de.Name, err)
			}
			e.Cases = append(e.Cases, c)
		}
		s.AddEnum(e)
	}
	return s, nil
}

func (dc docCase) toCase() (schema.Case, error) {
	if len(dc.Tuple) > 0 && dc.Fields != nil {
		return schema.Case{}, fmt.Errorf("case %s: tuple and fields are mutually exclusive", dc.Tag)
	}

	var c schema.Case
	switch {
	case len(dc.Tuple) > 0:
		c = schema.Positional(dc.Tag, dc.Tuple...)
	case dc.Fields != nil:
		fields := make([]schema.Field, len(dc.Fields))
		for i, f := range dc.Fields {
			fields[i] = schema.Field{Name: f.Name, Type: f.Type}
		}
		c = schema.Named(dc.Tag, fields...)
	default:
		c = schema.Unit(dc.Tag)
	}

	if dc.Template != nil {
		c = c.WithTemplate(*dc.Template)
	}
	if dc.Doc != "" {
		c = c.WithDoc(dc.Doc)
	}
	return c, nil
}

// usageError rewrites validator findings as generation-time usage errors
// that name the offending document location.
func (p *DocumentProvider) usageError(err error) error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return fmt.Errorf("document %s: %w", p.Path, err)
	}
	msgs := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		loc := strings.TrimPrefix(ve.Namespace(), "document.")
		msgs = append(msgs, loc+": "+formatFieldError(ve))
	}
	return fmt.Errorf("document %s: %s", p.Path, strings.Join(msgs, "; "))
}

// formatFieldError converts a validator.FieldError to a human-readable
// message.
func formatFieldError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
