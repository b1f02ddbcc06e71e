package main

import (
	"fmt"
	"os"

	"github.com/openshelf/catalog-intake-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Log.Info("Starting HTTP server", "port", a.Cfg.Port)
	if err := a.Run(":" + a.Cfg.Port); err != nil {
		a.Log.Error("HTTP server exited", "error", err)
		a.Close()
		os.Exit(1)
	}
}
