// Package main implements obsidian-cli, a command-line tool for Obsidian
// vaults.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	_ "github.com/joho/godotenv/autoload"

	"github.com/taigrr/obsidian-cli/internal/apperr"
)

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(newApp()),
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		os.Exit(apperr.ExitCode(err))
	}
}
