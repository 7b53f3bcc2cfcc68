// Command sim-tomasulo provides the entry point for the Tomasulo scheduler.
//
// For the full CLI, use: go run ./cmd/tomasulo
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("sim-tomasulo - dynamic instruction scheduler")
	fmt.Println("")
	fmt.Println("Usage: tomasulo run [options] <program.txt>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -c, --config       path to a scheduler configuration JSON file")
	fmt.Println("  -v, --verbose      print the per-cycle trace")
	fmt.Println("      --dump-config  print the resolved configuration and exit")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/tomasulo run <program.txt>' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: you provided arguments. Use 'go run ./cmd/tomasulo' instead.")
	}
}
