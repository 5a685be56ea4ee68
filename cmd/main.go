package main

import (
	"log/slog"
	"os"

	"trivia-service/internal/cli"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
