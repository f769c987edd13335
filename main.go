package main

import (
	"os"

	"github.com/cedricly/demandcast/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
