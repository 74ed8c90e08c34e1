// Package main is the entry point for the xhtmlsafe CLI.
package main

import (
	"os"

	"github.com/njchilds90/xhtmlsafe/cmd/xhtmlsafe/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
