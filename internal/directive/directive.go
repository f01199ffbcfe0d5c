// Package directive parses vartext directives from Go source files.
//
// Directives are line comments in the form:
//
//	//vartext:variant
//	//vartext:case [of=Enum] [template="..."] [positional]
//
// The variant directive marks a sealed interface type as a variant type.
// The case directive marks a struct type as one of its cases. The of
// argument selects the owning variant and may be omitted when the package
// declares exactly one. An empty struct is a unit case; a struct with
// fields is a named case, or a positional one when the flag is set.
package directive

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Directive represents a parsed vartext directive and the type declaration
// it annotates.
type Directive struct {
	Kind       Kind           // variant or case
	TypeName   string         // name of the annotated type
	Of         string         // owning variant for cases (empty if omitted)
	Template   *string        // display template override for cases
	Positional bool           // bind case fields by position
	Pos        token.Position // source location

	// IsInterface, EmbedsVariant and Methods describe an annotated
	// interface declaration.
	IsInterface   bool
	EmbedsVariant bool
	Methods       []string

	// IsStruct and Fields describe an annotated struct declaration.
	IsStruct bool
	Fields   []StructField
}

// StructField is one named field of an annotated case struct.
type StructField struct {
	Name string
	Type string
}

// Kind represents the type of directive.
type Kind string

const (
	KindVariant Kind = "variant"
	KindCase    Kind = "case"
)

// Result contains all directives found in a package, in source order.
type Result struct {
	// Variants contains all //vartext:variant directives found.
	Variants []Directive

	// Cases contains all //vartext:case directives found. Their order is
	// the case declaration order of the generated enums.
	Cases []Directive

	// Package is the name of the parsed package.
	Package string

	// PackagePath is the import path of the parsed package.
	PackagePath string

	// Dir is the directory containing the package.
	Dir string
}

// Parse scans a Go package for vartext directives.
//
// The pattern follows go command semantics:
//   - "." for current directory
//   - Import path like "github.com/foo/bar"
//   - Absolute or relative directory path
//
// Returns an error if:
//   - The package cannot be loaded
//   - A directive carries malformed arguments
//   - A directive is not immediately followed by a matching type declaration
func Parse(pattern string) (*Result, error) {
	return ParseDir(pattern, "")
}

// ParseDir is like Parse but allows specifying a working directory.
// If dir is empty, the current directory is used.
func ParseDir(pattern, dir string) (*Result, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles,
		Dir:  dir,
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %q", pattern)
	}

	if len(pkgs) > 1 {
		return nil, fmt.Errorf("multiple packages found matching %q; specify a single package", pattern)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkg.Errors[0])
	}

	result := &Result{
		Package:     pkg.Name,
		PackagePath: pkg.PkgPath,
	}

	if len(pkg.GoFiles) > 0 {
		result.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	fset := token.NewFileSet()
	for _, filename := range pkg.GoFiles {
		f, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}

		directives, err := parseFile(fset, f)
		if err != nil {
			return nil, err
		}

		for _, d := range directives {
			switch d.Kind {
			case KindVariant:
				result.Variants = append(result.Variants, d)
			case KindCase:
				result.Cases = append(result.Cases, d)
			}
		}
	}

	return result, nil
}

// parseFile extracts directives from a single file.
func parseFile(fset *token.FileSet, f *ast.File) ([]Directive, error) {
	var directives []Directive

	// Build a map of comment end positions to directives
	// so we can match them to the following type declarations.
	type pending struct {
		kind Kind
		args []string
		pos  token.Position
	}
	commentToDirective := make(map[token.Pos]pending)

	for _, cg := range f.Comments {
		for _, c := range cg.List {
			if !strings.HasPrefix(c.Text, "//vartext:") {
				continue
			}

			text := strings.TrimPrefix(c.Text, "//vartext:")
			pos := fset.Position(c.Pos())
			args, err := splitArgs(text)
			if err != nil {
				return nil, fmt.Errorf("%s: //vartext:%s", pos, err)
			}
			if len(args) == 0 {
				continue
			}

			switch args[0] {
			case "variant":
				commentToDirective[cg.End()] = pending{
					kind: KindVariant,
					args: args[1:],
					pos:  pos,
				}
			case "case":
				commentToDirective[cg.End()] = pending{
					kind: KindCase,
					args: args[1:],
					pos:  pos,
				}
			default:
				return nil, fmt.Errorf("%s: unknown directive //vartext:%s", pos, args[0])
			}
		}
	}

	// Match directives to type declarations.
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}

		if gd.Doc != nil {
			if p, ok := commentToDirective[gd.Doc.End()]; ok {
				if len(gd.Specs) != 1 {
					return nil, fmt.Errorf("%s: //vartext:%s directive must annotate a single type declaration", p.pos, p.kind)
				}
				d, err := buildDirective(p.kind, p.args, p.pos, gd.Specs[0].(*ast.TypeSpec))
				if err != nil {
					return nil, err
				}
				directives = append(directives, d)
				delete(commentToDirective, gd.Doc.End())
			}
		}

		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || ts.Doc == nil {
				continue
			}
			if p, ok := commentToDirective[ts.Doc.End()]; ok {
				d, err := buildDirective(p.kind, p.args, p.pos, ts)
				if err != nil {
					return nil, err
				}
				directives = append(directives, d)
				delete(commentToDirective, ts.Doc.End())
			}
		}
	}

	// Check for unmatched directives.
	for _, p := range commentToDirective {
		return nil, fmt.Errorf("%s: //vartext:%s directive must be followed by a type declaration", p.pos, p.kind)
	}

	return directives, nil
}

// buildDirective combines parsed arguments with the annotated declaration.
func buildDirective(kind Kind, args []string, pos token.Position, spec *ast.TypeSpec) (Directive, error) {
	d := Directive{
		Kind:     kind,
		TypeName: spec.Name.Name,
		Pos:      pos,
	}
	if err := applyArgs(&d, args); err != nil {
		return Directive{}, fmt.Errorf("%s: //vartext:%s on %s: %v", pos, kind, d.TypeName, err)
	}
	if err := captureType(&d, spec); err != nil {
		return Directive{}, fmt.Errorf("%s: %v", pos, err)
	}
	return d, nil
}

func applyArgs(d *Directive, args []string) error {
	for _, arg := range args {
		key, value, hasValue := strings.Cut(arg, "=")
		switch {
		case key == "of" && d.Kind == KindCase:
			if !hasValue || !token.IsIdentifier(value) {
				return fmt.Errorf("of argument needs a variant type name, got %q", arg)
			}
			if d.Of != "" {
				return fmt.Errorf("duplicate of argument")
			}
			d.Of = value
		case key == "template" && d.Kind == KindCase:
			if !hasValue {
				return fmt.Errorf("template argument needs a quoted value")
			}
			text, err := strconv.Unquote(value)
			if err != nil {
				return fmt.Errorf("template argument must be a quoted string, got %s", value)
			}
			if d.Template != nil {
				return fmt.Errorf("duplicate template argument")
			}
			d.Template = &text
		case key == "positional" && d.Kind == KindCase:
			if hasValue {
				return fmt.Errorf("positional takes no value")
			}
			d.Positional = true
		default:
			return fmt.Errorf("unknown argument %q", arg)
		}
	}
	return nil
}

// captureType records the shape of the annotated declaration. Variant
// directives require an interface; case directives require a struct with
// named fields only.
func captureType(d *Directive, spec *ast.TypeSpec) error {
	switch t := spec.Type.(type) {
	case *ast.InterfaceType:
		if d.Kind != KindVariant {
			return fmt.Errorf("//vartext:%s directive must annotate a struct type, %s is an interface", d.Kind, d.TypeName)
		}
		d.IsInterface = true
		for _, m := range t.Methods.List {
			if len(m.Names) == 0 {
				if types.ExprString(m.Type) == "vartext.Variant" {
					d.EmbedsVariant = true
				}
				continue
			}
			for _, name := range m.Names {
				d.Methods = append(d.Methods, name.Name)
			}
		}
	case *ast.StructType:
		if d.Kind != KindCase {
			return fmt.Errorf("//vartext:%s directive must annotate an interface type, %s is a struct", d.Kind, d.TypeName)
		}
		d.IsStruct = true
		for _, f := range t.Fields.List {
			if len(f.Names) == 0 {
				return fmt.Errorf("case struct %s has an embedded field; case fields must be named", d.TypeName)
			}
			for _, name := range f.Names {
				d.Fields = append(d.Fields, StructField{
					Name: name.Name,
					Type: types.ExprString(f.Type),
				})
			}
		}
	default:
		return fmt.Errorf("//vartext:%s directive must annotate an interface or struct type declaration", d.Kind)
	}
	return nil
}

// splitArgs splits a directive argument list on spaces, keeping
// double-quoted segments intact so template values may contain spaces.
func splitArgs(s string) ([]string, error) {
	var args []string
	var cur strings.Builder
	inQuote := false
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			cur.WriteRune(r)
			escaped = true
		case r == '"':
			cur.WriteRune(r)
			inQuote = !inQuote
		case !inQuote && (r == ' ' || r == '\t'):
			if cur.Len() > 0 {
				args = append(args, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote in arguments %q", s)
	}
	if cur.Len() > 0 {
		args = append(args, cur.String())
	}
	return args, nil
}
