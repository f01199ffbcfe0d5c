package main

import (
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pelletier/go-toml/v2"
)

// tomlConfig loads flag defaults from a TOML document, for vartext.toml in
// the working directory or a file named with --config. Keys are flag names
// with hyphens replaced by underscores (out, pkg, transform, no_types,
// single_file, dir). Values given on the command line win.
func tomlConfig(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := toml.NewDecoder(r).Decode(&values); err != nil {
		return nil, err
	}
	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		v, ok := values[strings.ReplaceAll(flag.Name, "-", "_")]
		if !ok {
			return nil, nil
		}
		return v, nil
	}
	return f, nil
}
