package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shibutz-dev/shibutz/backend/internal/config"
	"github.com/shibutz-dev/shibutz/backend/internal/repository"
	"github.com/shibutz-dev/shibutz/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var branchName string
	var rosterPath string

	flag.IntVar(&op, "op", 0, "operation to run (1: seed random demo branches, 2: import a CSV roster)")
	flag.IntVar(&n, "n", 3, "number of generic demo branches to insert")
	flag.StringVar(&branchName, "branch", "", "branch name for the roster import")
	flag.StringVar(&rosterPath, "roster", "./internal/seed/data/roster.csv", "path to the roster CSV file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not touch the network, so ping explicitly
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no operation given")
	case 1:
		if n <= 0 {
			slog.Error("number of branches must be positive")
			return
		}
		seed.SeedDemoBranches(repo, n, cfg.Seed.Branch.Password)
	case 2:
		if branchName == "" {
			slog.Error("a branch name is required for the roster import")
			return
		}
		if err := seed.SeedRoster(repo, branchName, rosterPath); err != nil {
			slog.Error("roster import failed", slog.String("error", err.Error()))
		}
	default:
		slog.Error("unknown operation")
	}
}
