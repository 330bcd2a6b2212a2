// Command projmetrics scans a directory tree and reports file, byte and
// line statistics with basic comment heuristics.
package main

import (
	"fmt"
	"os"

	"github.com/robfiero/project-codemetrics/internal/cli"
)

// version is overridden at release time via -ldflags "-X main.version=vX.Y.Z".
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "projmetrics error: %v\n", err)
		os.Exit(1)
	}
}
