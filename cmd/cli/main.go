package main

import (
	"context"
	"log"
	"os"

	"github.com/driftdesk/driftdesk-cli/internal/buildinfo"
	"github.com/driftdesk/driftdesk-cli/internal/client/cli"
	"github.com/driftdesk/driftdesk-cli/internal/client/config"
	"github.com/driftdesk/driftdesk-cli/internal/client/storage"
	"github.com/driftdesk/driftdesk-cli/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	db, err := storage.Open(ctx, cfg.DataFile)
	if err != nil {
		log.Printf("error initializing database: %v", err)
		return
	}
	defer db.Close()

	app := cli.NewApp(cfg, db, logger)
	app.Run(ctx)

}
