package main

import (
	"os"

	"github.com/cyp0633/librecur/cmd/recur/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
