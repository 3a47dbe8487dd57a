// +build tools

// Package tools pins the developer tooling used on this module so the
// go.mod keeps their versions.
package tools

// $ go generate -tags tools tools/tools.go
import (
	//go:generate go install golang.org/x/tools/cmd/goimports
	_ "golang.org/x/tools/cmd/goimports"

	//go:generate go install github.com/client9/misspell/cmd/misspell
	_ "github.com/client9/misspell/cmd/misspell"
)
