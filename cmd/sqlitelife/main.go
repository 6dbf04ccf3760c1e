// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Command sqlitelife opens, inspects and cleans the application databases.
//
// Usage:
//
//	sqlitelife [-config path] open|status|clean|version
//
// A failure to delete a database file during clean is fatal and exits
// with status 2.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mdhender/sqlitelife"
	"github.com/mdhender/sqlitelife/domain"
	"github.com/mdhender/sqlitelife/events"
	"github.com/mdhender/sqlitelife/internal/config"
	"github.com/mdhender/sqlitelife/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, sqlitelife.ErrDeleteFailed) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sqlitelife", flag.ContinueOnError)
	configPath := fs.String("config", os.Getenv("SQLITELIFE_CONFIG"), "path to YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: sqlitelife [-config path] open|status|clean|version")
	}
	command := fs.Arg(0)

	if command == "version" {
		fmt.Printf("%v\n", sqlitelife.Version())
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := logging.New(cfg.Logging, fmt.Sprintf("%v", sqlitelife.Version()))

	bus := events.NewBus()
	bus.Subscribe(func(e events.Event) {
		log.Info("database event", "kind", e.Kind.String(), "database", e.Database, "table", e.Table, "id", e.ID)
	})

	mgr, err := sqlitelife.New(sqlitelife.Config{
		Dir:         cfg.Database.Dir,
		Logger:      log,
		Bus:         bus,
		BusyTimeout: cfg.Database.BusyTimeoutDuration(),
		OpenTimeout: cfg.Database.OpenTimeoutDuration(),
	}, domain.Schemas()...)
	if err != nil {
		return err
	}
	defer func() {
		if err := mgr.Close(); err != nil {
			log.Error("closing databases", "error", err)
		}
	}()

	switch command {
	case "open":
		return openAll(ctx, log, mgr, bus)
	case "status":
		return status(ctx, mgr)
	case "clean":
		return clean(ctx, mgr)
	}
	return fmt.Errorf("unknown command %q", command)
}

// openAll opens every database and reports row counts.
func openAll(ctx context.Context, log *slog.Logger, mgr *sqlitelife.Manager, bus *events.Bus) error {
	for _, s := range domain.Schemas() {
		if _, err := mgr.Database(ctx, s.Name); err != nil {
			return err
		}
	}

	managers := domain.NewManagers(mgr, bus)
	individuals, err := managers.Individuals.Count(ctx)
	if err != nil {
		return err
	}
	types, err := managers.IndividualTypes.Count(ctx)
	if err != nil {
		return err
	}
	log.Info("databases ready", "individual_types", types, "individuals", individuals)
	return nil
}

// status prints the state of every database without changing it.
func status(ctx context.Context, mgr *sqlitelife.Manager) error {
	for _, s := range domain.Schemas() {
		st, err := mgr.Status(ctx, s.Name)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", st.Name)
		fmt.Printf("  path:    %s\n", st.Path)
		fmt.Printf("  exists:  %v\n", st.Exists)
		fmt.Printf("  version: %d (current %d)\n", st.StoredVersion, st.CurrentVersion)
		switch {
		case st.NeedsCreate():
			fmt.Printf("  next open creates the tables\n")
		case st.NeedsUpgrade():
			fmt.Printf("  next open wipes and recreates the database\n")
		}
		for _, t := range st.Tables {
			fmt.Printf("  table:   %s\n", t)
		}
	}
	return nil
}

// clean wipes and recreates every database.
func clean(ctx context.Context, mgr *sqlitelife.Manager) error {
	for _, s := range domain.Schemas() {
		d, err := mgr.Database(ctx, s.Name)
		if err != nil {
			return err
		}
		if err := mgr.Clean(ctx, d); err != nil {
			return err
		}
	}
	return nil
}
