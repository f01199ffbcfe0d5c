// Package vartext provides the runtime support types shared by code that the
// vartext generator emits.
//
// A generated variant type is a sealed interface with one struct per case.
// Every case implements Variant: String renders the case through its display
// template, Template returns the raw template text, and Args returns the
// formatted field values the template consumes.
//
// Generation itself lives in the vartextgen package tree; this package exists
// so that generated code has a single small dependency for its interface and
// error types.
package vartext

import "fmt"

// Version is the vartext release version, reported by the CLI.
const Version = "0.3.1"

// Variant is implemented by every case of a generated variant type. The
// generated sum interface embeds it, so a value of the sum type always
// exposes the three per-value operations.
type Variant interface {
	fmt.Stringer

	// Template returns the case's effective display template, unsubstituted.
	Template() string

	// Args returns the rendered field values consumed by the template, in
	// substitution order. Cases whose template consumes no fields return nil.
	Args() []string
}
