package main

import (
	"os"

	"github.com/quattor/release-helper/cmd/release-helper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
