package main

import (
	"fmt"

	"github.com/eigen-ai-labs/qqr/pkg/cli"
	"github.com/eigen-ai-labs/qqr/pkg/generators"
	"github.com/eigen-ai-labs/qqr/pkg/tourney"
)

const version = "0.1.0"

func listCapabilities() {
	fmt.Println("Registered Capabilities")
	fmt.Println("=======================")
	fmt.Println()

	fmt.Printf("Tournament algorithms (%d):\n", len(tourney.List()))
	for _, name := range tourney.List() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println()

	fmt.Printf("Generators (%d):\n", len(generators.List()))
	for _, name := range generators.List() {
		fmt.Printf("  - %s\n", name)
	}
}

// listFilteredGenerators prints only the registered generators matching the
// given comma-separated glob patterns.
func listFilteredGenerators(globs string) error {
	matches, err := cli.ParseCommaSeparatedGlobs(globs, generators.List())
	if err != nil {
		return fmt.Errorf("invalid generator filter: %w", err)
	}
	fmt.Printf("Generators matching %q (%d):\n", globs, len(matches))
	for _, name := range matches {
		fmt.Printf("  - %s\n", name)
	}
	return nil
}
