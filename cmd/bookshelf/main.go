package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "charm.land/bubbletea/v2"

	"bookshelf/internal/config"
	"bookshelf/internal/library"
	"bookshelf/internal/platform/booksapi"
	"bookshelf/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadEnvFiles()
	cfg := config.LoadClient()

	logger, closeLog, err := openLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	client := booksapi.NewClient(cfg.APIURL, cfg.Timeout, booksapi.WithRateLimit(cfg.RPS))
	lib := library.New(context.Background(), client, library.WithLogger(logger))

	logger.Printf("bookshelf start api=%s", cfg.APIURL)
	if _, err := tea.NewProgram(tui.New(lib)).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// openLog appends to path, or discards everything when path is empty.
// The terminal belongs to the UI, so nothing is written to stderr.
func openLog(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, "", log.LstdFlags), func() { _ = f.Close() }, nil
}
