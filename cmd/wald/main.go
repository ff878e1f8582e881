// Package main is the entry point for the wald CLI application.
package main

import (
	"github.com/archmagece/wald/pkg/waldcli"
)

// version is set during build time via ldflags.
var version = "dev"

func main() {
	waldcli.Execute(version)
}
