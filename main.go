package main

import (
	"os"

	"github.com/yrgohrm/databaser/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
