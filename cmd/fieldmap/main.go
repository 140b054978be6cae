// Package main provides the CLI entrypoint for fieldmap.
//
// fieldmap works with YAML mapping declarations:
//   - check: validates a declaration file and builds every model
//   - serialize / deserialize: converts JSON or YAML documents
//   - export: generates declarations from the map tags of Go structs
//   - suggest: proposes a declaration for an untagged DTO struct
package main

import (
	"os"

	"field-mapper/internal/cli"
)

func main() {
	command := cli.NewCmdRoot()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
