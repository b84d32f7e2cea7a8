package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/api"
	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/config"
	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/domain"
	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/ledger"
	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/store"
	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "micropay",
		Usage: "Account-based micropayment ledger with payment channels",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "HTTP port to listen on"},
			&cli.StringFlag{Name: "owner", Aliases: []string{"o"}, Usage: "Platform owner identity"},
			&cli.StringFlag{Name: "db-source", Aliases: []string{"d"}, Usage: "Postgres DSN for the payment archive"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		// Flags may still satisfy the required fields.
		cfg = &config.Config{Port: "8080"}
	}

	// Override with flags if set
	if c.IsSet("port") {
		cfg.Port = c.String("port")
	}
	if c.IsSet("owner") {
		cfg.PlatformOwner = c.String("owner")
	}
	if c.IsSet("db-source") {
		cfg.DBSource = c.String("db-source")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}
	if cfg.PlatformOwner == "" {
		return fmt.Errorf("platform owner is required (PLATFORM_OWNER or --owner)")
	}

	zlog, err := logger.New(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer zlog.Sync()

	// The archive is optional; without a DSN the engine runs with a no-op
	// journal and the in-memory state is the only record.
	var journal ledger.Journal
	if cfg.DBSource != "" {
		archive, err := store.NewArchive(cfg.DBSource, zlog)
		if err != nil {
			return fmt.Errorf("failed to connect to archive: %w", err)
		}
		defer archive.Close()
		if err := archive.EnsureSchema(context.Background()); err != nil {
			return err
		}
		journal = archive
		zlog.Infow("payment archive enabled")
	}

	engine := ledger.NewEngine(domain.AccountID(cfg.PlatformOwner), ledger.SystemClock{}, journal)
	handler := api.NewHandler(engine, zlog)
	router := api.NewRouter(handler)

	zlog.Infow("server starting", "port", cfg.Port, "owner", cfg.PlatformOwner)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		return err
	}
	return nil
}
