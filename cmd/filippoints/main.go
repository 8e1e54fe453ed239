// Package main is the entry point for the filippoints client.
package main

import (
	"os"

	"github.com/filippoints/filippoints-cli/cmd/filippoints/app"
	"github.com/filippoints/filippoints-cli/internal/logger"
)

func main() {
	err := app.NewRootCmd().Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
