package main

import (
	"context"
	"errors"
	"os"

	"square-mapper/app"
	"square-mapper/config"
	"square-mapper/logging"
	"square-mapper/terminal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	a, err := app.Open(cfg)
	if err != nil {
		logging.Error("failed to open map", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	session := terminal.NewSession(a.MapService, os.Stdin, os.Stdout, cfg.ColorOutput)
	if err := session.Run(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error("session ended", "err", err)
	}
}
