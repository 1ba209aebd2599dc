package main

import (
	"os"

	"github.com/alme-learn/alme/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
