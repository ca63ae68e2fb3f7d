package main

import (
	"os"

	"ccfront/cmd/ccfront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
