// Package vartextgen generates Go variant types: sealed interfaces with one
// struct per case, display templates, and text conversion functions. Enums
// come from schema documents (YAML or JSON) or from Go packages annotated
// with //vartext: directives; generated files are written through sinks.
package vartextgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vartext/vartext/vartextgen/golang"
	"github.com/vartext/vartext/vartextgen/provider"
	"github.com/vartext/vartext/vartextgen/schema"
	"github.com/vartext/vartext/vartextgen/sink"
)

// Config holds the configuration for one generation run.
type Config struct {
	// Documents are schema documents (YAML or JSON) to generate from. Each
	// document becomes one output file named <base>_vartext.go.
	Documents []string

	// Packages are Go package patterns to scan for //vartext: directives.
	// Each scanned package becomes one vartext_gen.go next to the annotated
	// declarations.
	Packages []string

	// Provider is an extra schema source beyond Documents and Packages.
	// Its enums land in a vartext_gen.go under OutDir.
	Provider provider.Provider

	// OutDir is the directory for document and Provider output. Default ".".
	// When set, it also overrides the host-package placement of scanned
	// output.
	OutDir string

	// Package overrides the output package name from the schema.
	Package string

	// EmitTypes controls whether output declares the enum interface and case
	// structs. Nil means each input chooses: documents and Provider emit
	// full declarations, scanned packages emit methods only because the host
	// already declares the types.
	EmitTypes *bool

	// Transform names the tag-to-template transform applied to cases
	// without an explicit template: "snake", "snake-upper", "kebab",
	// "camel", "pascal", "lower" or "upper". Empty means none.
	Transform string

	// SingleFile merges all document and Provider enums into one
	// vartext_gen.go under OutDir. Incompatible with Packages; scanned
	// output already arrives one file per package.
	SingleFile bool

	// Frontmatter is content added below the header of each generated file.
	Frontmatter string

	// Dir is the working directory for package scans. Empty means the
	// current directory.
	Dir string
}

// GeneratedFile is one written output file.
type GeneratedFile struct {
	// Path is the file's location: a filesystem path for Generate, a
	// sink-relative path for GenerateTo.
	Path string

	// Content is the file content as written.
	Content []byte
}

// Result reports one generation run.
type Result struct {
	// Files lists the written files in generation order.
	Files []GeneratedFile

	// Enums lists the generated enum type names across all inputs.
	Enums []string

	// Warnings collects provider and emitter warnings. The library never
	// logs; callers decide what to surface.
	Warnings []schema.Warning
}

// Generate runs the configured pipeline and writes each output file to its
// destination directory.
func Generate(ctx context.Context, cfg *Config) (*Result, error) {
	outs, res, err := run(ctx, cfg)
	if err != nil {
		return nil, err
	}
	for _, o := range outs {
		fs := sink.NewFilesystemSink(o.dir)
		if err := fs.WriteFile(ctx, o.name, o.content); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, GeneratedFile{
			Path:    filepath.Join(o.dir, o.name),
			Content: o.content,
		})
	}
	return res, nil
}

// GenerateTo runs the configured pipeline and writes every output file to s
// instead of the filesystem. Document and Provider output keeps its bare
// file name; scanned output is prefixed with the package name so that
// several scans cannot collide in one sink.
func GenerateTo(ctx context.Context, cfg *Config, s sink.OutputSink) (*Result, error) {
	outs, res, err := run(ctx, cfg)
	if err != nil {
		return nil, err
	}
	for _, o := range outs {
		if err := s.WriteFile(ctx, o.relPath, o.content); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, GeneratedFile{Path: o.relPath, Content: o.content})
	}
	return res, nil
}

// job is one schema source awaiting emission.
type job struct {
	p provider.Provider

	// source marks a scanned package: methods-only emission by default,
	// output placed in the host package directory.
	source bool

	// name is the output file name. Source jobs resolve their directory
	// from the built schema.
	name string
}

// output is one emitted file awaiting its write.
type output struct {
	dir     string
	name    string
	relPath string
	content []byte
}

func buildJobs(cfg *Config) ([]job, error) {
	var jobs []job
	seen := make(map[string]string)
	for _, doc := range cfg.Documents {
		name := documentFileName(doc)
		if prev, ok := seen[name]; ok && !cfg.SingleFile {
			return nil, fmt.Errorf("documents %s and %s both generate %s", prev, doc, name)
		}
		seen[name] = doc
		jobs = append(jobs, job{p: &provider.DocumentProvider{Path: doc}, name: name})
	}
	if cfg.Provider != nil {
		jobs = append(jobs, job{p: cfg.Provider, name: "vartext_gen.go"})
	}
	for _, pattern := range cfg.Packages {
		jobs = append(jobs, job{
			p:      &provider.SourceProvider{Pattern: pattern, Dir: cfg.Dir},
			source: true,
			name:   "vartext_gen.go",
		})
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("nothing to generate: configure Documents, Packages, or Provider")
	}
	if cfg.SingleFile && len(cfg.Packages) > 0 {
		return nil, fmt.Errorf("SingleFile merges documents; scanned packages already generate one file per package")
	}
	return jobs, nil
}

// documentFileName derives the output name for a schema document:
// colors.yaml generates colors_vartext.go.
func documentFileName(doc string) string {
	base := filepath.Base(doc)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "_vartext.go"
}

func run(ctx context.Context, cfg *Config) ([]output, *Result, error) {
	jobs, err := buildJobs(cfg)
	if err != nil {
		return nil, nil, err
	}

	res := &Result{}

	if cfg.SingleFile {
		merged := &schema.Schema{}
		for i, j := range jobs {
			s, err := j.p.BuildSchema(ctx)
			if err != nil {
				return nil, nil, err
			}
			if i == 0 {
				merged.Package = s.Package
			} else if cfg.Package == "" && s.Package != merged.Package {
				return nil, nil, fmt.Errorf("inputs disagree on package name: %q vs %q (set Package to override)", merged.Package, s.Package)
			}
			merged.Enums = append(merged.Enums, s.Enums...)
			merged.Warnings = append(merged.Warnings, s.Warnings...)
		}
		o, err := emit(cfg, merged, res, job{name: "vartext_gen.go"})
		if err != nil {
			return nil, nil, err
		}
		return []output{o}, res, nil
	}

	outs := make([]output, 0, len(jobs))
	for _, j := range jobs {
		s, err := j.p.BuildSchema(ctx)
		if err != nil {
			return nil, nil, err
		}
		o, err := emit(cfg, s, res, j)
		if err != nil {
			return nil, nil, err
		}
		outs = append(outs, o)
	}
	return outs, res, nil
}

// emit validates one schema, lowers it to formatted Go source, and resolves
// where the file belongs. Warnings accumulate on res.
func emit(cfg *Config, s *schema.Schema, res *Result, j job) (output, error) {
	if errs := s.Validate(); len(errs) > 0 {
		return output{}, fmt.Errorf("invalid schema: %w", errors.Join(errs...))
	}

	res.Warnings = append(res.Warnings, s.Warnings...)
	for _, e := range s.Enums {
		res.Enums = append(res.Enums, e.Name)
	}

	emitTypes := !j.source
	if cfg.EmitTypes != nil {
		emitTypes = *cfg.EmitTypes
	}
	em := golang.NewEmitter(golang.Config{
		Package:     cfg.Package,
		EmitTypes:   emitTypes,
		Transform:   cfg.Transform,
		Frontmatter: cfg.Frontmatter,
	})

	var buf bytes.Buffer
	warns, err := em.EmitFile(&buf, s)
	if err != nil {
		return output{}, err
	}
	res.Warnings = append(res.Warnings, warns...)

	content := buf.Bytes()
	if formatted, err := golang.Format(j.name, content); err != nil {
		res.Warnings = append(res.Warnings, schema.Warning{
			Code:    "format_failed",
			Message: err.Error(),
		})
	} else {
		content = formatted
	}

	o := output{name: j.name, relPath: j.name, content: content}
	switch {
	case j.source:
		o.dir = s.Dir
		if cfg.OutDir != "" {
			o.dir = cfg.OutDir
		}
		if o.dir == "" {
			o.dir = "."
		}
		o.relPath = s.Package + "/" + j.name
	default:
		o.dir = cfg.OutDir
		if o.dir == "" {
			o.dir = "."
		}
	}
	return o, nil
}
