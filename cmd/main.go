package main

import (
	"os"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
