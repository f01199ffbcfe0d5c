package vartextgen

import (
	"context"

	"github.com/vartext/vartext/vartextgen/provider"
	"github.com/vartext/vartext/vartextgen/sink"
)

// Generator provides a fluent API for configuring a generation run.
// Create with FromDocuments, FromPackages or FromProvider and configure
// with method chaining.
//
// Example:
//
//	vartextgen.FromDocuments("shapes.yaml").
//	    Transform("snake").
//	    ToDir("./gen")
type Generator struct {
	cfg Config
}

// FromDocuments creates a Generator reading the given schema documents.
// This is the entry point for the fluent API.
func FromDocuments(docs ...string) *Generator {
	return &Generator{cfg: Config{Documents: docs}}
}

// FromPackages creates a Generator scanning the given Go package patterns
// for //vartext: directives. Generated methods land next to the annotated
// declarations.
func FromPackages(patterns ...string) *Generator {
	return &Generator{cfg: Config{Packages: patterns}}
}

// FromProvider creates a Generator reading from a custom schema source.
func FromProvider(p provider.Provider) *Generator {
	return &Generator{cfg: Config{Provider: p}}
}

// Documents adds schema documents to the run.
func (g *Generator) Documents(docs ...string) *Generator {
	g.cfg.Documents = append(g.cfg.Documents, docs...)
	return g
}

// Packages adds Go package patterns to scan.
func (g *Generator) Packages(patterns ...string) *Generator {
	g.cfg.Packages = append(g.cfg.Packages, patterns...)
	return g
}

// Package overrides the output package name from the schema.
func (g *Generator) Package(name string) *Generator {
	g.cfg.Package = name
	return g
}

// Transform sets the tag-to-template transform for cases without an
// explicit template. Valid values: "snake", "snake-upper", "kebab",
// "camel", "pascal", "lower", "upper".
func (g *Generator) Transform(name string) *Generator {
	g.cfg.Transform = name
	return g
}

// EmitTypes overrides whether output declares the enum interface and case
// structs, regardless of the input kind's default.
func (g *Generator) EmitTypes(emit bool) *Generator {
	g.cfg.EmitTypes = &emit
	return g
}

// WithoutTypes disables type declarations; output carries methods and
// conversion functions only.
func (g *Generator) WithoutTypes() *Generator {
	return g.EmitTypes(false)
}

// SingleFile merges all document enums into one vartext_gen.go.
func (g *Generator) SingleFile() *Generator {
	g.cfg.SingleFile = true
	return g
}

// Frontmatter adds content below the header of each generated file.
func (g *Generator) Frontmatter(content string) *Generator {
	g.cfg.Frontmatter = content
	return g
}

// Dir sets the working directory for package scans.
func (g *Generator) Dir(dir string) *Generator {
	g.cfg.Dir = dir
	return g
}

// ToDir generates into the specified directory.
// This is a terminal operation that writes files to disk.
func (g *Generator) ToDir(dir string) (*Result, error) {
	g.cfg.OutDir = dir
	return Generate(context.Background(), &g.cfg)
}

// Generate runs with the configured destinations: documents into the
// current directory, scanned packages next to their declarations.
// This is a terminal operation that writes files to disk.
func (g *Generator) Generate() (*Result, error) {
	return Generate(context.Background(), &g.cfg)
}

// GenerateTo runs against the given sink instead of the filesystem.
func (g *Generator) GenerateTo(ctx context.Context, s sink.OutputSink) (*Result, error) {
	return GenerateTo(ctx, &g.cfg, s)
}
