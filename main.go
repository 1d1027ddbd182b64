package main

import (
	"os"

	"github.com/docsmith/docsmith/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
