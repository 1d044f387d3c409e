// Package main is the entry point for invoice-assist CLI.
package main

import (
	"os"

	"github.com/mkrish/invoice-assistant/cmd/invoice-assist/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
