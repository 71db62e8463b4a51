// Command relaycheck validates relay configuration files before deployment.
// It checks:
//   - YAML structure and required fields
//   - Game name uniqueness
//   - Kind and allocator values
//   - Binary input compatibility with the chosen allocator
//   - Capacity bounds against the game kind's minimum player count
//
// Usage: relaycheck [config files...]. With no arguments it checks
// relay.yaml in the current directory.
package main

import (
	"fmt"
	"os"

	"github.com/totemplay/gamerelay/config"
)

// CheckResult captures the outcome of validating a single file. If Valid is
// true, Notes contains informational messages; otherwise it accumulates the
// errors that were found.
type CheckResult struct {
	File  string
	Valid bool
	Notes []string
}

func main() {
	paths := os.Args[1:]
	if len(paths) == 0 {
		paths = []string{"relay.yaml"}
	}

	failed := 0
	for _, path := range paths {
		result := checkFile(path)
		printResult(result)
		if !result.Valid {
			failed++
		}
	}

	if failed > 0 {
		fmt.Printf("\n%d of %d file(s) failed validation\n", failed, len(paths))
		os.Exit(1)
	}
	fmt.Printf("\nAll %d file(s) valid\n", len(paths))
}

// checkFile loads and validates one config file and summarizes its games.
func checkFile(path string) CheckResult {
	result := CheckResult{File: path}

	cfg, err := config.Load(path)
	if err != nil {
		result.Notes = append(result.Notes, err.Error())
		return result
	}

	result.Valid = true
	result.Notes = append(result.Notes, fmt.Sprintf("listen: %s", cfg.Listen))
	for _, game := range cfg.Games {
		result.Notes = append(result.Notes, describeGame(game))
	}
	return result
}

// describeGame renders a one-line summary of a configured game.
func describeGame(game config.Game) string {
	capacity := "default capacity"
	if game.MaxPlayers > 0 {
		capacity = fmt.Sprintf("max %d players", game.MaxPlayers)
	}
	allocator := game.Allocator
	if allocator == "" {
		allocator = "dense"
	}
	input := "json input"
	if game.BinaryInput {
		input = "binary input"
	}
	return fmt.Sprintf("game %q: %s, %s, %s allocator, %s",
		game.Name, game.Kind, capacity, allocator, input)
}

func printResult(result CheckResult) {
	status := "INVALID"
	if result.Valid {
		status = "OK"
	}
	fmt.Printf("%s: %s\n", result.File, status)
	for _, note := range result.Notes {
		fmt.Printf("  %s\n", note)
	}
}
