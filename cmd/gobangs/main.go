// Package main is the entry point for the gobangs CLI.
package main

import (
	"os"

	"github.com/dshills/gobangs/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
