// Package main is the entry point for the cubo CLI.
//
// Usage:
//
//	cubo [flags] <command> [args]
//
// Commands:
//
//	run      - Interactive chat session with live avatar animation
//	serve    - WebSocket chat server for external UIs
//	version  - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/autocube/cubo/cmd/cubo/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
