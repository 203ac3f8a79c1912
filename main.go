package main

import (
	"os"

	"github.com/curator-dev/curator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
