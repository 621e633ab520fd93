package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/cleared-dev/finsynth/internal/commands"
)

func main() {
	// FINSYNTH_* overrides may come from a .env file.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
