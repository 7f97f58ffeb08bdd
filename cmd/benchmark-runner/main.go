package main

import (
	"fmt"
	"os"

	"github.com/daryltucker/ruversi-tools/internal/cli"
)

func main() {
	if err := cli.ExecuteRunner(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
