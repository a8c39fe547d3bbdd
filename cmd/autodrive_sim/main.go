// Command autodrive_sim drives a vehicle through a scenario file with the
// autodrive controller and journals every turn.
//
//	autodrive_sim run <scenario> [configDir]
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
)

const usage = "usage: autodrive_sim run <scenario> [configDir]"

func main() {
	args := os.Args[1:]
	if len(args) < 2 || strings.ToLower(args[0]) != "run" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	configDir := "."
	if len(args) > 2 {
		configDir = args[2]
	}

	report, err := run(context.Background(), args[1], configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "autodrive_sim:", err)
		os.Exit(1)
	}
	fmt.Println(report)
	if report.Outcome != "finished" {
		os.Exit(3)
	}
}
