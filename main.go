package main

import (
	"os"

	"github.com/citypulse/trafficast/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
