// Package main runs the PostgreSQL schema migrations for the character store.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spellbook/internal/config"
	"github.com/cory-johannsen/spellbook/internal/observability"
	"github.com/cory-johannsen/spellbook/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/postgres.yaml", "path to configuration file")
	migrationsDir := flag.String("migrations", "migrations", "directory holding the *.sql migrations")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	// Only the logging and database sections matter here; the rest of the
	// file may select another storage driver.
	v := config.NewViper()
	v.SetConfigFile(*configPath)
	if err := v.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "reading config: %v\n", err)
		os.Exit(1)
	}
	var logCfg config.LoggingConfig
	var dbCfg config.DatabaseConfig
	if err := v.UnmarshalKey("logging", &logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "parsing logging config: %v\n", err)
		os.Exit(1)
	}
	if err := v.UnmarshalKey("database", &dbCfg); err != nil {
		fmt.Fprintf(os.Stderr, "parsing database config: %v\n", err)
		os.Exit(1)
	}
	logger, err := observability.NewLogger(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	res, err := postgres.Migrate(dbCfg.DSN(), *migrationsDir, *direction, *steps)
	if err != nil {
		logger.Fatal("migration failed",
			zap.String("host", dbCfg.Host),
			zap.String("database", dbCfg.Name),
			zap.Error(err),
		)
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	if res.NoChange {
		fmt.Fprintf(os.Stdout, "no changes (version=%d dirty=%v) [%s]\n", res.Version, res.Dirty, elapsed)
		return
	}
	fmt.Fprintf(os.Stdout, "migrated %s to version=%d dirty=%v [%s]\n", *direction, res.Version, res.Dirty, elapsed)
}
