package main

import (
	"os"

	"lexibot/cmd/lexictl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
