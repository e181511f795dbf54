package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/commands"
)

func main() {
	// .env supplies BUCHEX_CONFIG / BUCHEX_DB overrides; absence is fine.
	_ = godotenv.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "buchex",
	})

	if err := commands.NewRootCommand(logger).Execute(); err != nil {
		os.Exit(1)
	}
}
