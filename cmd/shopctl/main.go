// Package main is the entrypoint for shopctl, the shopfloor command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kiranshivaraju/shopfloor/cmd/shopctl/commands"
)

func main() {
	_ = godotenv.Load()

	if err := commands.NewRootCmd(commands.PostgresKeys).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
