package check

import (
	"context"
	"fmt"
	"strings"

	"github.com/vartext/vartext/cmd/vartext/internal/inputs"
	"github.com/vartext/vartext/internal/directive"
	"github.com/vartext/vartext/vartextgen"
	"github.com/vartext/vartext/vartextgen/sink"
)

type Cmd struct {
	Inputs []string `arg:"" optional:"" help:"Schema documents (.yaml, .yml, .json) or Go package patterns."`
	Dir    string   `help:"Directory for resolving package patterns." default:"."`
}

func (c *Cmd) Run() error {
	docs, pkgs := inputs.Split(c.Inputs)
	if len(docs) == 0 && len(pkgs) == 0 {
		return fmt.Errorf("no inputs: pass schema documents or package patterns")
	}

	// Run the full pipeline against an in-memory sink so every document
	// parses, every schema validates and every template binds.
	cfg := &vartextgen.Config{Documents: docs, Packages: pkgs, Dir: c.Dir}
	result, err := vartextgen.GenerateTo(context.Background(), cfg, sink.NewMemorySink())
	if err != nil {
		return err
	}

	fmt.Printf("✓ %d enums: %s\n", len(result.Enums), strings.Join(result.Enums, ", "))
	fmt.Printf("✓ %d files generate cleanly\n", len(result.Files))
	for _, w := range result.Warnings {
		// The audit below re-reports sealing hazards with source positions.
		if len(pkgs) > 0 && (w.Code == "missing_variant_embed" || w.Code == "unsealed_interface") {
			continue
		}
		fmt.Printf("⚠ %s\n", w.Message)
	}

	// Type-check annotated packages for hazards the syntax scan cannot see.
	var hazards int
	for _, pattern := range pkgs {
		findings, err := directive.AuditDir(pattern, c.Dir)
		if err != nil {
			return fmt.Errorf("audit %s: %w", pattern, err)
		}
		for _, f := range findings {
			fmt.Printf("✗ %s\n", f)
			hazards++
		}
	}
	switch hazards {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("1 hazard found")
	default:
		return fmt.Errorf("%d hazards found", hazards)
	}
}
