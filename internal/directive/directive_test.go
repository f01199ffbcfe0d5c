package directive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeModule lays out a throwaway module so ParseDir can load it as a
// standalone package.
func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module test\n\ngo 1.21\n"), 0644); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestParse_VariantAndCases(t *testing.T) {
	t.Setenv("GOWORK", "off")
	dir := writeModule(t, map[string]string{
		"color.go": `package palette

//vartext:variant
type Color interface {
	vartext.Variant
	isColor()
}

//vartext:case
type Green struct{}

//vartext:case template="Burgundy"
type Red struct{}

//vartext:case template="custom {label} #{id}"
type Custom struct {
	label string
	id    int
}
`,
	})

	result, err := ParseDir(".", dir)
	if err != nil {
		t.Fatal(err)
	}

	if result.Package != "palette" {
		t.Errorf("Package = %q, want %q", result.Package, "palette")
	}

	if len(result.Variants) != 1 {
		t.Fatalf("got %d variants, want 1", len(result.Variants))
	}
	v := result.Variants[0]
	if v.TypeName != "Color" || !v.IsInterface {
		t.Errorf("variant = %+v, want interface Color", v)
	}
	if !v.EmbedsVariant {
		t.Error("variant does not record the vartext.Variant embed")
	}
	if len(v.Methods) != 1 || v.Methods[0] != "isColor" {
		t.Errorf("variant methods = %v, want [isColor]", v.Methods)
	}

	if len(result.Cases) != 3 {
		t.Fatalf("got %d cases, want 3", len(result.Cases))
	}

	green := result.Cases[0]
	if green.TypeName != "Green" || !green.IsStruct || len(green.Fields) != 0 {
		t.Errorf("case 0 = %+v, want empty struct Green", green)
	}
	if green.Template != nil {
		t.Errorf("Green template = %q, want none", *green.Template)
	}

	red := result.Cases[1]
	if red.Template == nil || *red.Template != "Burgundy" {
		t.Errorf("Red template = %v, want Burgundy", red.Template)
	}

	custom := result.Cases[2]
	if custom.Template == nil || *custom.Template != "custom {label} #{id}" {
		t.Errorf("Custom template = %v, want the spaced override", custom.Template)
	}
	wantFields := []StructField{{Name: "label", Type: "string"}, {Name: "id", Type: "int"}}
	if len(custom.Fields) != len(wantFields) {
		t.Fatalf("Custom fields = %+v, want %+v", custom.Fields, wantFields)
	}
	for i, f := range wantFields {
		if custom.Fields[i] != f {
			t.Errorf("Custom field %d = %+v, want %+v", i, custom.Fields[i], f)
		}
	}
}

func TestParse_PositionalAndOf(t *testing.T) {
	t.Setenv("GOWORK", "off")
	dir := writeModule(t, map[string]string{
		"shapes.go": `package shapes

//vartext:variant
type Shape interface {
	isShape()
}

//vartext:variant
type Fill interface {
	isFill()
}

//vartext:case of=Shape positional template="Circle with radius: {}"
type Circle struct {
	radius uint8
}

//vartext:case of=Fill
type Solid struct{}
`,
	})

	result, err := ParseDir(".", dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(result.Variants))
	}
	if result.Variants[0].EmbedsVariant {
		t.Error("Shape does not embed vartext.Variant, but the scan says it does")
	}

	circle := result.Cases[0]
	if circle.Of != "Shape" || !circle.Positional {
		t.Errorf("Circle = %+v, want of=Shape positional", circle)
	}
	if circle.Template == nil || *circle.Template != "Circle with radius: {}" {
		t.Errorf("Circle template = %v", circle.Template)
	}

	solid := result.Cases[1]
	if solid.Of != "Fill" || solid.Positional {
		t.Errorf("Solid = %+v, want of=Fill without positional", solid)
	}
}

func TestParse_GroupedDecl(t *testing.T) {
	t.Setenv("GOWORK", "off")
	dir := writeModule(t, map[string]string{
		"status.go": `package status

//vartext:variant
type Status interface {
	isStatus()
}

type (
	//vartext:case
	Ready struct{}

	//vartext:case template="not ready"
	Pending struct{}

	unrelated struct{}
)
`,
	})

	result, err := ParseDir(".", dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Cases) != 2 {
		t.Fatalf("got %d cases, want 2", len(result.Cases))
	}
	if result.Cases[0].TypeName != "Ready" || result.Cases[1].TypeName != "Pending" {
		t.Errorf("cases = %s, %s, want Ready, Pending", result.Cases[0].TypeName, result.Cases[1].TypeName)
	}
}

func TestParse_AcrossFiles(t *testing.T) {
	t.Setenv("GOWORK", "off")
	dir := writeModule(t, map[string]string{
		"a_color.go": `package palette

//vartext:variant
type Color interface {
	isColor()
}

//vartext:case
type Green struct{}
`,
		"b_more.go": `package palette

//vartext:case
type Red struct{}
`,
	})

	result, err := ParseDir(".", dir)
	if err != nil {
		t.Fatal(err)
	}

	// Files load in sorted order, so declaration order is stable.
	if len(result.Cases) != 2 || result.Cases[0].TypeName != "Green" || result.Cases[1].TypeName != "Red" {
		t.Errorf("cases = %+v, want Green then Red", result.Cases)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Setenv("GOWORK", "off")
	tests := []struct {
		name    string
		source  string
		wantErr string
	}{
		{
			name: "directive not on type",
			source: `package p

//vartext:case
var x = 1
`,
			wantErr: "must be followed by a type declaration",
		},
		{
			name: "unknown directive",
			source: `package p

//vartext:frob
type T struct{}
`,
			wantErr: "unknown directive //vartext:frob",
		},
		{
			name: "case on interface",
			source: `package p

//vartext:case
type T interface{}
`,
			wantErr: "must annotate a struct type",
		},
		{
			name: "variant on struct",
			source: `package p

//vartext:variant
type T struct{}
`,
			wantErr: "must annotate an interface type",
		},
		{
			name: "unquoted template",
			source: `package p

//vartext:case template=Burgundy
type T struct{}
`,
			wantErr: "must be a quoted string",
		},
		{
			name: "duplicate template",
			source: `package p

//vartext:case template="a" template="b"
type T struct{}
`,
			wantErr: "duplicate template argument",
		},
		{
			name: "unknown argument",
			source: `package p

//vartext:case color=red
type T struct{}
`,
			wantErr: `unknown argument "color=red"`,
		},
		{
			name: "embedded field",
			source: `package p

//vartext:case
type T struct {
	error
}
`,
			wantErr: "embedded field",
		},
		{
			name: "unterminated quote",
			source: `package p

//vartext:case template="oops
type T struct{}
`,
			wantErr: "unterminated quote",
		},
		{
			name: "directive on grouped decl",
			source: `package p

//vartext:case
type (
	A struct{}
	B struct{}
)
`,
			wantErr: "single type declaration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeModule(t, map[string]string{"p.go": tt.source})
			_, err := ParseDir(".", dir)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}
