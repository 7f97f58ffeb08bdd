/*
PURPOSE:
  Entry point for artifact-sync.
  Initializes the CLI root command and executes it.

ARCHITECTURE INTEGRATION:
  - Calls: internal/cli.ExecuteSync()

ERROR HANDLING:
  - Explicit error check on Execute(); exit code 1 on failure.

IMPLEMENTATION RULES:
  - Keep main() minimal. All logic belongs in internal/ packages.

USAGE:
  go build -o artifact-sync ./cmd/artifact-sync
  ./artifact-sync < token.txt
*/

package main

import (
	"fmt"
	"os"

	"github.com/daryltucker/ruversi-tools/internal/cli"
)

func main() {
	if err := cli.ExecuteSync(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
