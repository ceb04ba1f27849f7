package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/penguintracker/internal/buildinfo"
	"github.com/dmitrijs2005/penguintracker/internal/logging"
	"github.com/dmitrijs2005/penguintracker/internal/server"
	"github.com/dmitrijs2005/penguintracker/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stdout, logging.Backend(cfg.LogBackend), logging.ParseLevel(cfg.LogLevel))

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}

}
