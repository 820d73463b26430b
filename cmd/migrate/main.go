package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/storefront-bff/pkg/config"
	"github.com/angelmondragon/storefront-bff/pkg/db"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/migrate"
)

// Commands that drop session or checkout-attempt data.
var destructive = map[string]bool{"down": true, "reset": true, "redo": true}

var gooseCommands = map[string]bool{"up": true, "up-by-one": true, "down": true, "redo": true, "reset": true, "status": true}

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "up|up-by-one|down|redo|reset|status|version|create|validate")
	dir := flag.String("dir", migrate.DefaultDir, "migrations directory for create and validate")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	force := flag.Bool("force", false, "allow down/redo/reset in prod")
	flag.Parse()

	switch *cmd {
	case "create":
		if *name == "" {
			exitf("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			exitf("failed to create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.ValidateDir(os.DirFS(*dir), "."); err != nil {
			exitf("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	if !gooseCommands[*cmd] && *cmd != "version" {
		exitf("unknown -cmd value: %s", *cmd)
	}
	if *cmd == "version" && *version == "" {
		exitf("missing -version for version command")
	}

	cfg, err := config.Load()
	if err != nil {
		exitf("config: %v", err)
	}
	if cfg.App.IsProd() && destructive[*cmd] && !*force {
		exitf("refusing %q in prod without -force", *cmd)
	}

	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"cmd":    *cmd,
		"env":    cfg.App.Env,
		"driver": cfg.DB.Driver,
	})

	if err := runDB(ctx, cfg, logg, *cmd, *version); err != nil {
		logg.Error(ctx, "migrate failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migrate complete")
}

func runDB(ctx context.Context, cfg *config.Config, logg *logger.Logger, cmd, version string) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		return fmt.Errorf("sql database: %w", err)
	}
	if cmd == "version" {
		return migrate.MigrateToVersion(ctx, sqlDB, dbClient.Driver(), version)
	}
	return migrate.Run(ctx, sqlDB, dbClient.Driver(), cmd)
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
