package main

import (
	"os"

	"evalgo/cmd/evalgo/commands"
)

func main() {
	root := commands.NewRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
