package main

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"tracklens/internal/cli"
	"tracklens/internal/store"
)

func main() {
	w := os.Stdout
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{}))

	dbPath, ok := os.LookupEnv("TRACKLENS_DB")
	if !ok {
		dbPath = "tracklens.db"
	}
	if _, err := os.Stat(dbPath); err != nil {
		err := os.WriteFile(dbPath, []byte(""), 0644)
		if err != nil {
			logger.Error("Error creating database file", slog.Any("file", dbPath))
			os.Exit(1)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		logger.Error("Error opening database", slog.Any("error", err))
		os.Exit(1)
	}

	trackStore := store.New(db, logger)
	if err := trackStore.Init(context.Background()); err != nil {
		logger.Error("Error creating schema", slog.Any("error", err))
		os.Exit(1)
	}

	if err := run(w, os.Args[1:], logger, trackStore); err != nil {
		logger.Error("Error running tracklens", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(w io.Writer, args []string, logger *slog.Logger, trackStore *store.Store) error {
	c := cli.New(w, trackStore, logger, args)

	if err := c.Run(args); err != nil {
		return err
	}

	return nil
}
