package main

import (
	"os"

	"github.com/octosourcer/octosourcer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
