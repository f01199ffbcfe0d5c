package golang

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// Config controls Go code emission.
type Config struct {
	// Package is the package name for generated files. When empty, the
	// schema's own package name is used.
	Package string

	// EmitTypes controls whether the sum interface and case struct
	// declarations are emitted alongside the methods. Document schemas need
	// them; schemas scanned from Go source already declare their types and
	// get methods only.
	EmitTypes bool

	// Transform is an optional case transform applied to default templates
	// derived from tags: "snake", "snake-upper", "kebab", "camel", "pascal",
	// "lower", "upper", or "" for none. Explicit overrides are never
	// transformed, and the names operation always returns the raw tags.
	Transform string

	// Frontmatter is extra content placed between the generated-file header
	// and the package clause, typically build constraints.
	Frontmatter string
}

// transformTag applies a case transform to a default template derived from
// a tag.
func transformTag(tag, transform string) (string, error) {
	switch transform {
	case "", "none":
		return tag, nil
	case "snake":
		return strcase.ToSnake(tag), nil
	case "snake-upper":
		return strcase.ToScreamingSnake(tag), nil
	case "kebab":
		return strcase.ToKebab(tag), nil
	case "camel":
		return strcase.ToLowerCamel(tag), nil
	case "pascal":
		return strcase.ToCamel(tag), nil
	case "lower":
		return strings.ToLower(tag), nil
	case "upper":
		return strings.ToUpper(tag), nil
	default:
		return "", fmt.Errorf("unknown template transform %q", transform)
	}
}
