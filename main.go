package main

import (
	"os"

	"github.com/penwyp/go-study-tracker/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
