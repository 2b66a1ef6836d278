// Command liftlog-seed fills an account with demo workouts. It is safe to run
// repeatedly; existing demo rows are reused.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/logging"
	"github.com/claude/liftlog/internal/seed"
	"github.com/claude/liftlog/internal/server"
	"github.com/claude/liftlog/internal/storage/backend"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrationsDir := flag.String("migrations", "migrations", "directory holding PostgreSQL migrations")
	login := flag.String("login", server.LocalUser.Login, "login of the user to seed")
	name := flag.String("name", server.LocalUser.DisplayName, "display name used when the user is created")
	today := flag.String("today", "", "reference date (YYYY-MM-DD), default today")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	log, closeLog := logging.New(cfg.Log)
	defer closeLog()

	opts := seed.Options{Login: *login, DisplayName: *name}
	if *today != "" {
		opts.Today, err = time.Parse("2006-01-02", *today)
		if err != nil {
			log.Error("invalid -today", "value", *today, "error", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	store, closeStore, err := backend.Open(ctx, cfg.Database, *migrationsDir, log)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	res, err := seed.Run(ctx, store, opts, log)
	if err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Seed done for %s. New exercises: %d, new workouts: %d, new sets: %d\n",
		*login, res.Exercises, res.Workouts, res.Sets)
}
