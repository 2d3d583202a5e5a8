package main

import (
	"log/slog"
	"os"

	"postbot/bot"
)

func main() {
	if err := bot.Start(); err != nil {
		slog.Error("bot exited with error", "error", err)
		os.Exit(1)
	}
}
