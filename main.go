package main

import (
	"os"

	"github.com/gridarb/gridarb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
