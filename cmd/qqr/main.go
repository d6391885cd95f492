package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	// Import for side effects: register all tournament drivers via init().
	_ "github.com/eigen-ai-labs/qqr/pkg/tourney"

	// Generator backends, likewise self-registering.
	_ "github.com/eigen-ai-labs/qqr/internal/generators/bedrock"
	_ "github.com/eigen-ai-labs/qqr/internal/generators/openai"
	_ "github.com/eigen-ai-labs/qqr/internal/generators/openaicompat"
	_ "github.com/eigen-ai-labs/qqr/internal/generators/replicate"
	_ "github.com/eigen-ai-labs/qqr/internal/generators/test"
)

func main() {
	// Parse with custom exit handler to enforce proper exit codes:
	// 0 = success, 1 = run/driver error, 2 = validation/usage error
	ctx := kong.Parse(&CLI,
		kong.Name("qqr"),
		kong.Description("qqr - tournament-based group reward models for RL"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.Exit(func(code int) {
			if code != 0 {
				os.Exit(2)
			}
			os.Exit(0)
		}),
	)

	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
