package golang

import (
	"fmt"

	"golang.org/x/tools/imports"
)

// Format runs goimports over emitted source. Besides gofmt layout this
// resolves imports for field types that reference other packages.
func Format(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, nil)
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", filename, err)
	}
	return out, nil
}
