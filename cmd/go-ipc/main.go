package main

import (
	"fmt"
	"os"

	"github.com/kesdev/go-ipc/cmd/go-ipc/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
