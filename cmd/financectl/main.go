package main

import (
	"log/slog"

	"github.com/SscSPs/erp_finance/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", slog.String("error", err.Error()))
	}
	cli.Execute()
}
