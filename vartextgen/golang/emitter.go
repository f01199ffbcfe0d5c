// Package golang emits Go source code for variant schemas.
//
// The emitter renders one file per schema: a sealed interface and one struct
// per case when type declarations are requested, and in every mode the
// String, Template and Args methods plus the package-level Names, Parse and
// (for all-unit enums) FromText functions.
package golang

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/vartext/vartext/vartextgen/binding"
	"github.com/vartext/vartext/vartextgen/schema"
)

// Header is the first line of every generated file.
const Header = "// Code generated by vartext. DO NOT EDIT."

// runtimePackage is imported by generated code for the Variant interface
// and the parse error types.
const runtimePackage = "github.com/vartext/vartext"

// Emitter generates Go source from a schema.
type Emitter struct {
	config Config
}

// NewEmitter returns an Emitter with the given configuration.
func NewEmitter(config Config) *Emitter {
	return &Emitter{config: config}
}

// casePlan is a case with its template resolved and its placeholders bound.
type casePlan struct {
	c        schema.Case
	template string
	bindings []binding.Binding
}

type enumPlan struct {
	e     schema.Enum
	cases []casePlan
}

// plan resolves every case's effective template and extracts its bindings.
// The configured transform applies to default templates only, never to
// explicit overrides.
func (em *Emitter) plan(e schema.Enum) (enumPlan, error) {
	p := enumPlan{e: e}
	for _, c := range e.Cases {
		tmpl := binding.EffectiveTemplate(c)
		if !c.HasTemplate() {
			t, err := transformTag(c.Tag, em.config.Transform)
			if err != nil {
				return enumPlan{}, fmt.Errorf("enum %s: %w", e.Name, err)
			}
			tmpl = t
		}
		bindings, err := binding.Extract(c, tmpl)
		if err != nil {
			return enumPlan{}, fmt.Errorf("enum %s: %w", e.Name, err)
		}
		p.cases = append(p.cases, casePlan{c: c, template: tmpl, bindings: bindings})
	}
	return p, nil
}

// EmitFile writes a complete generated source file covering every enum in
// the schema. The file is not gofmt-clean; run it through Format before
// writing it out.
func (em *Emitter) EmitFile(buf *bytes.Buffer, s *schema.Schema) ([]schema.Warning, error) {
	pkg := em.config.Package
	if pkg == "" {
		pkg = s.Package
	}
	if pkg == "" {
		return nil, fmt.Errorf("no package name in schema or emitter config")
	}

	if err := checkMethodCollisions(s); err != nil {
		return nil, err
	}
	if em.config.EmitTypes {
		if err := checkTypeCollisions(s); err != nil {
			return nil, err
		}
		if err := checkFieldCollisions(s); err != nil {
			return nil, err
		}
	}

	// Plan every enum before emitting anything so a template error cannot
	// leave partial output in the buffer.
	plans := make([]enumPlan, 0, len(s.Enums))
	for _, e := range s.Enums {
		p, err := em.plan(e)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	fmt.Fprintf(buf, "%s\n\n", Header)
	if em.config.Frontmatter != "" {
		fmt.Fprintf(buf, "%s\n\n", em.config.Frontmatter)
	}
	fmt.Fprintf(buf, "package %s\n\n", pkg)
	em.emitImports(buf, plans)

	var warnings []schema.Warning
	for _, p := range plans {
		warnings = append(warnings, em.emitEnum(buf, p)...)
	}
	return warnings, nil
}

// EmitEnum writes the declarations and methods for a single enum without
// any file scaffold (header, package clause, imports). Callers composing
// their own files are responsible for importing fmt when any case carries
// bindings, and the runtime package always.
func (em *Emitter) EmitEnum(buf *bytes.Buffer, e schema.Enum) ([]schema.Warning, error) {
	p, err := em.plan(e)
	if err != nil {
		return nil, err
	}
	return em.emitEnum(buf, p), nil
}

// checkFieldCollisions rejects cases whose field names collide once
// exported. Only emitted struct declarations export field names; in
// methods-only mode the host package owns them verbatim.
func checkFieldCollisions(s *schema.Schema) error {
	for _, e := range s.Enums {
		for _, c := range e.Cases {
			seen := make(map[string]string)
			for _, f := range c.Fields {
				name := exportName(f.Name)
				if prev, ok := seen[name]; ok {
					return fmt.Errorf("enum %s case %s: fields %s and %s both export as %s", e.Name, c.Tag, prev, f.Name, name)
				}
				seen[name] = f.Name
			}
		}
	}
	return nil
}

// checkMethodCollisions rejects case tags reused across enums. Methods
// attach to the tag's type in every mode, so a reused tag would get two
// String methods.
func checkMethodCollisions(s *schema.Schema) error {
	seen := make(map[string]string)
	for _, e := range s.Enums {
		for _, c := range e.Cases {
			if owner, ok := seen[c.Tag]; ok {
				return fmt.Errorf("enum %s: case %s collides with %s", e.Name, c.Tag, owner)
			}
			seen[c.Tag] = fmt.Sprintf("enum %s case %s", e.Name, c.Tag)
		}
	}
	return nil
}

// checkTypeCollisions rejects enum names that match a case tag. Enum
// interfaces and case structs share one namespace when type declarations
// are emitted. Duplicate enum names are a schema validation concern and not
// rechecked here.
func checkTypeCollisions(s *schema.Schema) error {
	tags := make(map[string]string)
	for _, e := range s.Enums {
		for _, c := range e.Cases {
			tags[c.Tag] = e.Name
		}
	}
	for _, e := range s.Enums {
		if owner, ok := tags[e.Name]; ok {
			return fmt.Errorf("enum %s collides with case %s of enum %s", e.Name, e.Name, owner)
		}
	}
	return nil
}

func (em *Emitter) emitImports(buf *bytes.Buffer, plans []enumPlan) {
	if len(plans) == 0 {
		return
	}
	needFmt := false
	for _, p := range plans {
		for _, cp := range p.cases {
			if len(cp.bindings) > 0 {
				needFmt = true
			}
		}
	}
	if needFmt {
		fmt.Fprintf(buf, "import (\n\t%q\n\n\t%q\n)\n\n", "fmt", runtimePackage)
		return
	}
	fmt.Fprintf(buf, "import %q\n\n", runtimePackage)
}

// emitEnum writes one enum's declarations, methods and package functions.
// Template problems were caught during planning, so the only outcome besides
// source text is the ambiguity warning.
func (em *Emitter) emitEnum(buf *bytes.Buffer, p enumPlan) []schema.Warning {
	if em.config.EmitTypes {
		em.emitInterface(buf, p.e)
	}
	for _, cp := range p.cases {
		em.emitCase(buf, p.e, cp)
	}
	em.emitNames(buf, p)
	em.emitParse(buf, p)
	return em.emitFromText(buf, p)
}

func (em *Emitter) emitInterface(buf *bytes.Buffer, e schema.Enum) {
	if e.Doc != "" {
		emitDoc(buf, e.Doc)
	} else {
		fmt.Fprintf(buf, "// %s is a closed variant type; only its case types implement it.\n", e.Name)
	}
	fmt.Fprintf(buf, "type %s interface {\n\tvartext.Variant\n\t%s()\n}\n\n", e.Name, markerName(e.Name))
}

func (em *Emitter) emitCase(buf *bytes.Buffer, e schema.Enum, cp casePlan) {
	if em.config.EmitTypes {
		if cp.c.Doc != "" {
			emitDoc(buf, cp.c.Doc)
		} else {
			fmt.Fprintf(buf, "// %s is the %s case of %s.\n", cp.c.Tag, cp.c.Tag, e.Name)
		}
		if len(cp.c.Fields) == 0 {
			fmt.Fprintf(buf, "type %s struct{}\n\n", cp.c.Tag)
		} else {
			fmt.Fprintf(buf, "type %s struct {\n", cp.c.Tag)
			for _, f := range cp.c.Fields {
				typ := f.Type
				if typ == "" {
					typ = "string"
				}
				fmt.Fprintf(buf, "\t%s %s\n", exportName(f.Name), typ)
			}
			fmt.Fprintf(buf, "}\n\n")
		}
	}

	fmt.Fprintf(buf, "func (%s) %s() {}\n\n", cp.c.Tag, markerName(e.Name))
	em.emitString(buf, cp)
	em.emitTemplate(buf, cp)
	em.emitArgs(buf, cp)
}

// fieldRef names a field in a method body. Emitted struct declarations
// export every field; host-declared structs are referenced verbatim.
func (em *Emitter) fieldRef(name string) string {
	if em.config.EmitTypes {
		return exportName(name)
	}
	return name
}

func (em *Emitter) emitString(buf *bytes.Buffer, cp casePlan) {
	if len(cp.bindings) == 0 {
		fmt.Fprintf(buf, "func (%s) String() string {\n\treturn %s\n}\n\n", cp.c.Tag, strconv.Quote(cp.template))
		return
	}
	args := make([]string, 0, len(cp.bindings))
	for _, b := range cp.bindings {
		args = append(args, "v."+em.fieldRef(b.Field.Name))
	}
	pattern := formatPattern(cp.template, cp.bindings)
	fmt.Fprintf(buf, "func (v %s) String() string {\n\treturn fmt.Sprintf(%s, %s)\n}\n\n",
		cp.c.Tag, strconv.Quote(pattern), strings.Join(args, ", "))
}

func (em *Emitter) emitTemplate(buf *bytes.Buffer, cp casePlan) {
	fmt.Fprintf(buf, "func (%s) Template() string {\n\treturn %s\n}\n\n", cp.c.Tag, strconv.Quote(cp.template))
}

func (em *Emitter) emitArgs(buf *bytes.Buffer, cp casePlan) {
	if len(cp.bindings) == 0 {
		fmt.Fprintf(buf, "func (%s) Args() []string {\n\treturn nil\n}\n\n", cp.c.Tag)
		return
	}
	vals := make([]string, 0, len(cp.bindings))
	for _, b := range cp.bindings {
		vals = append(vals, fmt.Sprintf("fmt.Sprint(v.%s)", em.fieldRef(b.Field.Name)))
	}
	fmt.Fprintf(buf, "func (v %s) Args() []string {\n\treturn []string{%s}\n}\n\n", cp.c.Tag, strings.Join(vals, ", "))
}

func (em *Emitter) emitNames(buf *bytes.Buffer, p enumPlan) {
	fmt.Fprintf(buf, "// %sNames lists the case tags of %s in declaration order.\n", p.e.Name, p.e.Name)
	fmt.Fprintf(buf, "func %sNames() []string {\n", p.e.Name)
	if len(p.cases) == 0 {
		fmt.Fprintf(buf, "\treturn nil\n}\n\n")
		return
	}
	tags := make([]string, 0, len(p.cases))
	for _, cp := range p.cases {
		tags = append(tags, strconv.Quote(cp.c.Tag))
	}
	fmt.Fprintf(buf, "\treturn []string{%s}\n}\n\n", strings.Join(tags, ", "))
}

// emitParse writes the exact-match parser. Unit cases and named cases with
// no fields contribute a key; the first case to claim a key keeps it, since
// a Go switch rejects duplicate constant cases.
func (em *Emitter) emitParse(buf *bytes.Buffer, p enumPlan) {
	type arm struct {
		key string
		tag string
	}
	var arms []arm
	seen := make(map[string]bool)
	for _, cp := range p.cases {
		switch cp.c.Arity {
		case schema.ArityUnit:
		case schema.ArityNamed:
			if len(cp.c.Fields) > 0 {
				continue
			}
		default:
			continue
		}
		if seen[cp.template] {
			continue
		}
		seen[cp.template] = true
		arms = append(arms, arm{key: cp.template, tag: cp.c.Tag})
	}

	fmt.Fprintf(buf, "// Parse%s returns the %s case that renders exactly as s.\n", p.e.Name, p.e.Name)
	fmt.Fprintf(buf, "func Parse%s(s string) (%s, error) {\n", p.e.Name, p.e.Name)
	if len(arms) > 0 {
		fmt.Fprintf(buf, "\tswitch s {\n")
		for _, a := range arms {
			fmt.Fprintf(buf, "\tcase %s:\n\t\treturn %s{}, nil\n", strconv.Quote(a.key), a.tag)
		}
		fmt.Fprintf(buf, "\t}\n")
	}
	fmt.Fprintf(buf, "\treturn nil, &vartext.ParseError{Type: %s, Input: s}\n}\n\n", strconv.Quote(p.e.Name))
}

// emitFromText writes the text conversion for all-unit enums. When two cases
// render to the same text the conversion is unsound, so the generated
// function fails for every input and reports the collisions.
func (em *Emitter) emitFromText(buf *bytes.Buffer, p enumPlan) []schema.Warning {
	if !p.e.AllUnit() || len(p.cases) == 0 {
		return nil
	}
	tags := make([]string, 0, len(p.cases))
	texts := make([]string, 0, len(p.cases))
	for _, cp := range p.cases {
		tags = append(tags, cp.c.Tag)
		texts = append(texts, cp.template)
	}
	collisions := binding.Collide(tags, texts)

	if len(collisions) == 0 {
		fmt.Fprintf(buf, "// %sFromText converts free-form text to a %s case.\n", p.e.Name, p.e.Name)
		fmt.Fprintf(buf, "func %sFromText(s string) (%s, error) {\n\treturn Parse%s(s)\n}\n\n", p.e.Name, p.e.Name, p.e.Name)
		return nil
	}

	details := make([]string, 0, len(collisions))
	for _, c := range collisions {
		details = append(details, c.String())
	}
	fmt.Fprintf(buf, "// %sFromText converts free-form text to a %s case.\n//\n", p.e.Name, p.e.Name)
	fmt.Fprintf(buf, "// Conversion is disabled: multiple cases render to the same text.\n")
	fmt.Fprintf(buf, "func %sFromText(s string) (%s, error) {\n", p.e.Name, p.e.Name)
	fmt.Fprintf(buf, "\treturn nil, &vartext.AmbiguityError{\n\t\tType: %s,\n\t\tCollisions: []vartext.Collision{\n", strconv.Quote(p.e.Name))
	for _, c := range collisions {
		quoted := make([]string, 0, len(c.Tags))
		for _, t := range c.Tags {
			quoted = append(quoted, strconv.Quote(t))
		}
		fmt.Fprintf(buf, "\t\t\t{Text: %s, Tags: []string{%s}},\n", strconv.Quote(c.Text), strings.Join(quoted, ", "))
	}
	fmt.Fprintf(buf, "\t\t},\n\t}\n}\n\n")

	return []schema.Warning{{
		Code:    "ambiguous_template",
		Enum:    p.e.Name,
		Message: fmt.Sprintf("%sFromText always fails: %s", p.e.Name, strings.Join(details, "; ")),
	}}
}

// formatPattern lowers a template to a Sprintf pattern by splicing %v over
// each placeholder. Bindings arrive in ascending offset order and never
// overlap.
func formatPattern(template string, bindings []binding.Binding) string {
	var b strings.Builder
	last := 0
	for _, bd := range bindings {
		b.WriteString(escapePercent(template[last:bd.Start]))
		b.WriteString("%v")
		last = bd.End + 1
	}
	b.WriteString(escapePercent(template[last:]))
	return b.String()
}

// escapePercent protects literal template text from Sprintf verb expansion.
func escapePercent(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}

func emitDoc(buf *bytes.Buffer, doc string) {
	for _, line := range strings.Split(strings.TrimRight(doc, "\n"), "\n") {
		if line == "" {
			fmt.Fprintf(buf, "//\n")
			continue
		}
		fmt.Fprintf(buf, "// %s\n", line)
	}
}
