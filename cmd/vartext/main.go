package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/vartext/vartext/cmd/vartext/internal/check"
	"github.com/vartext/vartext/cmd/vartext/internal/gen"
)

type CLI struct {
	Config  kong.ConfigFlag `help:"Load flag defaults from a TOML file."`
	Verbose bool            `help:"Enable debug logging." short:"v"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate variant code from schema documents or annotated packages."`
	Check   check.Cmd  `cmd:"" help:"Validate documents and annotated packages without writing files."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("vartext"),
		kong.Description("Variant code generator: sealed interfaces with one struct per case."),
		kong.UsageOnError(),
		kong.Configuration(tomlConfig, "vartext.toml"),
	)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
