package main

import (
	"fmt"
	"os"

	"auroraengine/errs"
	"auroraengine/evaluator"
	"auroraengine/layer"
	"auroraengine/network"
	"auroraengine/node/kinds"
	"auroraengine/param"
	"auroraengine/persist"
	"auroraengine/preset"
)

// RunCLI handles subcommand execution for one-shot inspection commands
// that don't start the render loop. Returns true if a subcommand was
// handled (mirrors the teacher's server/cli.go RunCLI contract).
func RunCLI(args []string, projectPath string) bool {
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "version":
		fmt.Printf("auroraengine %s\n", Version)
		return true
	case "status":
		return cliStatus(projectPath)
	case "presets":
		return cliPresets()
	case "validate":
		return cliValidate(args[1:])
	default:
		return false
	}
}

func cliStatus(projectPath string) bool {
	adapter := persist.NewJSONFileAdapter(projectPath, nil)
	proj, err := adapter.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading project: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Project: %s\n", projectPath)
	fmt.Printf("Schema version: %s\n", proj.Version)
	fmt.Printf("Layers: %d\n", len(proj.Layers))
	fmt.Printf("Networks: %d\n", len(proj.Networks))
	fmt.Printf("Version: %s\n", Version)
	return true
}

func cliPresets() bool {
	lib := preset.NewLibrary()
	names := lib.Names()
	if len(names) == 0 {
		fmt.Println("No presets registered.")
		return true
	}
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	return true
}

func cliValidate(args []string) bool {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: auroraengine validate <project.json>")
		os.Exit(1)
	}
	path := args[0]

	adapter := persist.NewJSONFileAdapter(path, nil)
	proj, err := adapter.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading project: %v\n", err)
		os.Exit(1)
	}

	registry := kinds.NewRegistry()
	var problems []string
	warn := func(w errs.Warning) {
		problems = append(problems, fmt.Sprintf("%s: %v", w.Context, w.Err))
	}

	networks := network.NewStore(registry, warn)
	eval := evaluator.New(registry, warn)
	params := param.NewStore(networks, eval)
	components := layer.NewComponentRegistry()
	persist.Rehydrate(proj, components, registry, networks, params, warn)

	if len(problems) == 0 {
		fmt.Println("OK: no problems found.")
		return true
	}
	fmt.Printf("%d problem(s) found:\n", len(problems))
	for _, p := range problems {
		fmt.Printf("  - %s\n", p)
	}
	os.Exit(1)
	return true
}
