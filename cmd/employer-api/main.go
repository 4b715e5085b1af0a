package main

import (
	"os"

	"github.com/deppfellow/employer-api/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
