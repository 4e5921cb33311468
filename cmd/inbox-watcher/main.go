// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// inbox-watcher ingests study material dropped into a local directory
// straight into the document library, without going through the HTTP API.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/studyhive/internal/database"
	"github.com/studyhive/internal/watcher"
)

var (
	inboxDir = flag.String("inbox", "./inbox", "Directory to watch for study material")
	dbPath   = flag.String("db-path", "./studyhive.db", "SQLite database path (shared with study-server)")
	notify   = flag.Bool("notify", true, "Show an OS notification for each ingested document")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment as-is")
	}

	db, err := sql.Open("sqlite3", *dbPath)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}
	defer db.Close()

	docs, err := database.NewDocumentStore(db)
	if err != nil {
		log.Fatalf("failed to initialize document store: %v", err)
	}
	events, err := database.NewEventLogger(db)
	if err != nil {
		log.Fatalf("failed to initialize event log: %v", err)
	}

	w := watcher.New(*inboxDir, docs, events, *notify)
	if err := w.Start(context.Background()); err != nil {
		log.Fatalf("failed to start inbox watcher: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received signal %v, shutting down", sig)

	w.Stop()
	log.Printf("Shutdown complete")
}
