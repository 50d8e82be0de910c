package main

import (
	"os"

	"github.com/echograde/echograde/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
