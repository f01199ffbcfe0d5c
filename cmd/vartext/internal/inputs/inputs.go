// Package inputs classifies command-line inputs for the vartext CLI.
package inputs

import (
	"path/filepath"
	"strings"
)

// Split separates schema documents from Go package patterns. Inputs ending
// in .yaml, .yml or .json are documents; everything else is treated as a
// package pattern.
func Split(args []string) (documents, packages []string) {
	for _, a := range args {
		switch strings.ToLower(filepath.Ext(a)) {
		case ".yaml", ".yml", ".json":
			documents = append(documents, a)
		default:
			packages = append(packages, a)
		}
	}
	return documents, packages
}
