package main

import (
	"os"

	"github.com/neetprep/neetprep/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
