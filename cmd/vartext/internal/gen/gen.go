package gen

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vartext/vartext/cmd/vartext/internal/inputs"
	"github.com/vartext/vartext/vartextgen"
)

type Cmd struct {
	Inputs     []string `arg:"" optional:"" help:"Schema documents (.yaml, .yml, .json) or Go package patterns."`
	Out        string   `help:"Output directory. Documents default to the current directory; scanned packages generate next to their declarations." short:"o"`
	Pkg        string   `help:"Package name for generated files."`
	Transform  string   `help:"Rename derived templates: snake, snake-upper, kebab, camel, pascal, lower, upper." short:"t"`
	NoTypes    bool     `help:"Emit methods only, without interface and case type declarations."`
	SingleFile bool     `help:"Merge all documents into a single vartext_gen.go."`
	Dir        string   `help:"Directory for resolving package patterns." default:"."`
}

func (c *Cmd) Run() error {
	docs, pkgs := inputs.Split(c.Inputs)
	if len(docs) == 0 && len(pkgs) == 0 {
		return fmt.Errorf("no inputs: pass schema documents or package patterns")
	}

	cfg := &vartextgen.Config{
		Documents:  docs,
		Packages:   pkgs,
		OutDir:     c.Out,
		Package:    c.Pkg,
		Transform:  c.Transform,
		SingleFile: c.SingleFile,
		Dir:        c.Dir,
	}
	if c.NoTypes {
		emit := false
		cfg.EmitTypes = &emit
	}

	result, err := vartextgen.Generate(context.Background(), cfg)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		slog.Warn(w.Message, "code", w.Code, "enum", w.Enum)
	}
	for _, f := range result.Files {
		slog.Debug("wrote", "path", f.Path, "bytes", len(f.Content))
	}
	slog.Debug("done", "enums", len(result.Enums), "files", len(result.Files))
	return nil
}
