package main

import (
	"fmt"

	"github.com/alecthomas/kong"
)

// CLI represents the qqr command-line interface.
var CLI struct {
	Debug      bool          `help:"Enable debug mode." short:"d" env:"QQR_DEBUG"`
	Version    VersionCmd    `cmd:"" help:"Print version information."`
	Help       HelpCmd       `cmd:"" hidden:"" default:"1"`
	List       ListCmd       `cmd:"" help:"List available tournament algorithms and generators."`
	Run        RunCmd        `cmd:"" help:"Score a group of candidates with a tournament algorithm."`
	Completion CompletionCmd `cmd:"" help:"Generate shell completion scripts."`
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (v *VersionCmd) Run() error {
	printVersion()
	return nil
}

// HelpCmd prints help.
type HelpCmd struct{}

func (h *HelpCmd) Run(ctx *kong.Context) error {
	appCtx := *ctx
	if len(appCtx.Path) > 1 {
		appCtx.Path = appCtx.Path[:1]
	}
	return appCtx.PrintUsage(false)
}

// ListCmd lists available capabilities, optionally filtered by glob.
type ListCmd struct {
	Generators string `help:"Comma-separated glob patterns to filter generators (e.g. 'openai.*,bedrock.*')." name:"generators"`
}

func (l *ListCmd) Run() error {
	if l.Generators == "" {
		listCapabilities()
		return nil
	}
	return listFilteredGenerators(l.Generators)
}

// printVersion prints the version string.
func printVersion() {
	fmt.Printf("qqr %s\n", version)
}

// CompletionCmd generates shell completion scripts.
type CompletionCmd struct {
	Shell string `arg:"" enum:"bash,zsh,fish" help:"Shell type (bash, zsh, fish)."`
}

func (c *CompletionCmd) Run() error {
	switch c.Shell {
	case "bash":
		fmt.Println("# Bash completion for qqr")
		fmt.Println("# Add to ~/.bashrc:")
		fmt.Println("# eval \"$(qqr completion bash)\"")
	case "zsh":
		fmt.Println("# Zsh completion for qqr")
		fmt.Println("# Add to ~/.zshrc:")
		fmt.Println("# eval \"$(qqr completion zsh)\"")
	case "fish":
		fmt.Println("# Fish completion for qqr")
		fmt.Println("# Run: qqr completion fish | source")
	}
	return nil
}
