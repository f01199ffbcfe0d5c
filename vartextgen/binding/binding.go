// Package binding resolves effective display templates and binds template
// placeholders to case fields.
//
// Placeholder scanning pairs the i-th "{" with the i-th "}". The template
// syntax has no nesting and no escape sequences; templates that a naive
// pairing cannot represent are rejected with a TemplateError.
package binding

import (
	"fmt"
	"strings"

	"github.com/vartext/vartext/vartextgen/schema"
)

// EffectiveTemplate returns the template text used for a case: the explicit
// override verbatim when present, otherwise the bare tag.
func EffectiveTemplate(c schema.Case) string {
	if c.Template != nil {
		return *c.Template
	}
	return c.Tag
}

// Binding is one placeholder occurrence bound to a case field. The ordered
// binding list for a case follows template occurrence order, not field
// declaration order.
type Binding struct {
	// Name is the placeholder text between the braces. For positional slots
	// it is the bound field's name.
	Name string

	// Field is the bound field.
	Field schema.Field

	// Start is the byte offset of the opening brace within the template.
	Start int

	// End is the byte offset of the closing brace within the template.
	End int
}

// TemplateError reports a template the generator cannot lower. Generation
// aborts for the whole enum when any case produces one.
type TemplateError struct {
	// Case is the tag of the case whose template failed.
	Case string

	// Message describes the problem.
	Message string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("case %s: %s", e.Case, e.Message)
}

// Extract scans a case's effective template and produces its ordered binding
// list.
//
// Unit cases are never scanned; their templates are literal text, braces
// included. Positional cases bind each literal "{}" occurrence to one field
// in declaration order; a template without "{}" binds nothing and the fields
// go unrendered. Named cases bind each "{identifier}" placeholder to the
// same-named field; a template with zero placeholders is a constant label.
func Extract(c schema.Case, template string) ([]Binding, error) {
	switch c.Arity {
	case schema.ArityUnit:
		return nil, nil
	case schema.ArityPositional:
		return extractPositional(c, template)
	case schema.ArityNamed:
		return extractNamed(c, template)
	default:
		return nil, &TemplateError{Case: c.Tag, Message: fmt.Sprintf("unknown arity %d", int(c.Arity))}
	}
}

// extractPositional locates literal "{}" slots. Any brace that is not part
// of a "{}" pair is invalid in a positional template: positional cases may
// not use named placeholders, and stray braces would corrupt the lowered
// format string.
func extractPositional(c schema.Case, template string) ([]Binding, error) {
	var spans [][2]int
	for i := 0; i+1 < len(template); {
		j := strings.Index(template[i:], "{}")
		if j < 0 {
			break
		}
		spans = append(spans, [2]int{i + j, i + j + 1})
		i += j + 2
	}

	// Reject braces outside "{}" slots.
	inSlot := func(idx int) bool {
		for _, s := range spans {
			if idx == s[0] || idx == s[1] {
				return true
			}
		}
		return false
	}
	for i := 0; i < len(template); i++ {
		if (template[i] == '{' || template[i] == '}') && !inSlot(i) {
			return nil, &TemplateError{
				Case:    c.Tag,
				Message: fmt.Sprintf("positional template %q may only contain positional {} placeholders", template),
			}
		}
	}

	if len(spans) == 0 {
		return nil, nil
	}
	if len(spans) != len(c.Fields) {
		return nil, &TemplateError{
			Case:    c.Tag,
			Message: fmt.Sprintf("template %q consumes %d positional placeholders but the case declares %d fields", template, len(spans), len(c.Fields)),
		}
	}

	bindings := make([]Binding, len(spans))
	for i, s := range spans {
		bindings[i] = Binding{
			Name:  c.Fields[i].Name,
			Field: c.Fields[i],
			Start: s[0],
			End:   s[1],
		}
	}
	return bindings, nil
}

// extractNamed collects the indices of every "{" and every "}" and pairs
// them index by index. The substring strictly between each pair must name a
// declared field. Unbalanced templates are truncated to the shorter side, so
// a lone brace with no partner binds nothing.
func extractNamed(c schema.Case, template string) ([]Binding, error) {
	var opens, closes []int
	for i := 0; i < len(template); i++ {
		switch template[i] {
		case '{':
			opens = append(opens, i)
		case '}':
			closes = append(closes, i)
		}
	}

	n := len(opens)
	if len(closes) < n {
		n = len(closes)
	}
	if n == 0 {
		return nil, nil
	}

	fields := make(map[string]schema.Field, len(c.Fields))
	for _, f := range c.Fields {
		fields[f.Name] = f
	}

	bindings := make([]Binding, 0, n)
	for i := 0; i < n; i++ {
		start, end := opens[i], closes[i]
		if end < start {
			return nil, &TemplateError{
				Case:    c.Tag,
				Message: fmt.Sprintf("template %q has a closing brace before its opening brace", template),
			}
		}
		name := template[start+1 : end]
		if name == "" {
			return nil, &TemplateError{
				Case:    c.Tag,
				Message: fmt.Sprintf("template %q contains an empty placeholder; named cases must reference fields by name", template),
			}
		}
		f, ok := fields[name]
		if !ok {
			return nil, &TemplateError{
				Case:    c.Tag,
				Message: fmt.Sprintf("template placeholder {%s} does not match a declared field (have: %s)", name, strings.Join(c.FieldNames(), ", ")),
			}
		}
		bindings = append(bindings, Binding{Name: name, Field: f, Start: start, End: end})
	}
	return bindings, nil
}
