package main

import (
	"os"

	"newspipe/cmd/handlers"
	"newspipe/internal/logger"
)

func main() {
	logger.Init()
	if err := handlers.Execute(); err != nil {
		os.Exit(1)
	}
}
