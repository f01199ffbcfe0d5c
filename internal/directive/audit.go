package directive

import (
	"fmt"
	"go/token"
	"go/types"
	"unicode"
	"unicode/utf8"

	"golang.org/x/tools/go/packages"
)

// variantPath is the import path of the runtime package whose Variant
// interface sealed variant types are expected to embed.
const variantPath = "github.com/vartext/vartext"

// Finding is a hazard reported by Audit. Findings do not stop generation;
// they flag annotated declarations that will not behave as intended.
type Finding struct {
	Pos     token.Position
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Pos, f.Message)
}

// Audit type-checks an annotated package and reports hazards the syntax
// scan cannot see: variant interfaces that do not embed vartext.Variant
// (resolved through imports, so aliased imports are handled), interfaces
// without an is<Name> sealing method, and of arguments naming types that
// carry no variant directive.
//
// A package may legitimately fail to type-check before generation has run,
// since the generated methods are still missing. Type errors therefore do
// not abort the audit; declarations that cannot be resolved are reported as
// findings instead.
func Audit(pattern string) ([]Finding, error) {
	return AuditDir(pattern, "")
}

// AuditDir is like Audit but allows specifying a working directory.
func AuditDir(pattern, dir string) ([]Finding, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedTypesInfo,
		Dir: dir,
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
	for _, e := range pkg.Errors {
		if e.Kind != packages.TypeError {
			return nil, fmt.Errorf("package errors: %v", e)
		}
	}

	var directives []Directive
	for _, f := range pkg.Syntax {
		ds, err := parseFile(pkg.Fset, f)
		if err != nil {
			return nil, err
		}
		directives = append(directives, ds...)
	}

	variants := make(map[string]bool)
	for _, d := range directives {
		if d.Kind == KindVariant {
			variants[d.TypeName] = true
		}
	}

	var findings []Finding
	scope := pkg.Types.Scope()
	for _, d := range directives {
		switch d.Kind {
		case KindVariant:
			findings = append(findings, auditVariant(scope, d)...)
		case KindCase:
			if d.Of != "" && !variants[d.Of] {
				findings = append(findings, Finding{
					Pos:     d.Pos,
					Message: fmt.Sprintf("case %s: of=%s does not name a //vartext:variant type in this package", d.TypeName, d.Of),
				})
			}
		}
	}
	return findings, nil
}

func auditVariant(scope *types.Scope, d Directive) []Finding {
	obj := scope.Lookup(d.TypeName)
	if obj == nil {
		return []Finding{{
			Pos:     d.Pos,
			Message: fmt.Sprintf("variant %s could not be type-checked", d.TypeName),
		}}
	}
	iface, ok := obj.Type().Underlying().(*types.Interface)
	if !ok {
		// The syntax scan already rejects non-interface declarations.
		return nil
	}

	var findings []Finding
	if !embedsVariant(iface) {
		findings = append(findings, Finding{
			Pos:     d.Pos,
			Message: fmt.Sprintf("variant %s does not embed vartext.Variant", d.TypeName),
		})
	}
	if marker := MarkerName(d.TypeName); !hasMethod(iface, marker) {
		findings = append(findings, Finding{
			Pos:     d.Pos,
			Message: fmt.Sprintf("variant %s has no %s method; the interface is not sealed to its package", d.TypeName, marker),
		})
	}
	return findings
}

// embedsVariant reports whether the interface explicitly embeds the runtime
// Variant interface, whatever the import is named locally.
func embedsVariant(iface *types.Interface) bool {
	for i := 0; i < iface.NumEmbeddeds(); i++ {
		named, ok := iface.EmbeddedType(i).(*types.Named)
		if !ok {
			continue
		}
		obj := named.Obj()
		if obj.Name() == "Variant" && obj.Pkg() != nil && obj.Pkg().Path() == variantPath {
			return true
		}
	}
	return false
}

func hasMethod(iface *types.Interface, name string) bool {
	for i := 0; i < iface.NumExplicitMethods(); i++ {
		if iface.ExplicitMethod(i).Name() == name {
			return true
		}
	}
	return false
}

// MarkerName is the sealing method name generated for a variant type.
func MarkerName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return "is" + string(unicode.ToUpper(r)) + name[size:]
}
