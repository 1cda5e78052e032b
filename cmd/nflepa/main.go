package main

import (
	"os"

	"github.com/wonny/nflepa/cmd/nflepa/commands"
)

// main is the entry point for the nflepa CLI
// ⭐ Single binary: go run ./cmd/nflepa [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
