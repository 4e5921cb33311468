// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/studyhive/internal/ai"
	"github.com/studyhive/internal/cache"
	"github.com/studyhive/internal/chunker"
	"github.com/studyhive/internal/config"
	"github.com/studyhive/internal/database"
	"github.com/studyhive/internal/embeddings"
	"github.com/studyhive/internal/logger"
	"github.com/studyhive/internal/progress"
	"github.com/studyhive/internal/queue"
	"github.com/studyhive/internal/ratelimit"
	"github.com/studyhive/internal/search"
	"github.com/studyhive/internal/server"
	"github.com/studyhive/internal/summarizer"
	"github.com/studyhive/internal/vectordb"
	"github.com/studyhive/internal/worker"
)

var configPath = flag.String("config", "", "Path to config file (optional)")

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment as-is")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLog, err := logger.NewLogger(cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer appLog.Close()
	log.SetOutput(appLog)

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}
	defer db.Close()

	docs, err := database.NewDocumentStore(db)
	if err != nil {
		log.Fatalf("failed to initialize document store: %v", err)
	}
	sums, err := database.NewSummaryStore(db)
	if err != nil {
		log.Fatalf("failed to initialize summary store: %v", err)
	}
	events, err := database.NewEventLogger(db)
	if err != nil {
		log.Fatalf("failed to initialize event log: %v", err)
	}

	ctx := context.Background()

	// Job queue: Redis when reachable, in-process otherwise. The in-process
	// queue loses jobs on restart but keeps single-node setups simple.
	var jobQueue queue.Queue
	if redisClient, err := config.NewRedisClient(ctx); err != nil {
		log.Printf("warning: Redis unavailable (%v), using in-process queue", err)
		jobQueue = queue.NewMemoryQueue(64)
	} else {
		jobQueue, err = queue.NewRedisQueue(redisClient, "")
		if err != nil {
			log.Fatalf("failed to create job queue: %v", err)
		}
	}

	limits := chunker.Limits{
		MinChunkWords:    cfg.Chunker.MinChunkWords,
		TargetChunkWords: cfg.Chunker.TargetChunkWords,
		MaxChunkWords:    cfg.Chunker.MaxChunkWords,
	}
	chk := chunker.New(limits)
	tracker := progress.NewTracker()

	gen, err := ai.NewOpenAIGeneratorFromEnv()
	if err != nil {
		log.Fatalf("failed to initialize generator: %v", err)
	}
	summ := summarizer.New(gen, chk, tracker, cfg.Generator.MaxTokens)

	// Optional semantic search over summarized chunks.
	var indexer *search.Indexer
	if cfg.Qdrant.Enabled {
		conn, err := grpc.Dial(cfg.Qdrant.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			log.Fatalf("failed to connect to Qdrant: %v", err)
		}
		defer conn.Close()

		embedderType := os.Getenv("EMBEDDER_TYPE")
		if embedderType == "" {
			embedderType = "mock"
		}
		embedder, err := embeddings.NewEmbedder(embedderType, map[string]string{
			"api_key":   os.Getenv("OPENAI_API_KEY"),
			"model":     os.Getenv("EMBEDDER_MODEL"),
			"base_url":  os.Getenv("OLLAMA_BASE_URL"),
			"dimension": os.Getenv("EMBEDDER_DIMENSION"),
		})
		if err != nil {
			log.Fatalf("failed to initialize embedder: %v", err)
		}
		log.Printf("Initialized embedder: %s (dimension: %d)", embedderType, embedder.Dimension())

		vdb, err := vectordb.NewQdrantVectorDB(conn, embedder.Dimension())
		if err != nil {
			log.Fatalf("failed to init vector db: %v", err)
		}
		indexer = search.NewIndexer(embedder, vdb)
	}

	handler := worker.NewSummarizeHandler(summ, docs, sums, events, tracker, workerIndexer(indexer))
	workerCtx, workerCancel := context.WithCancel(ctx)
	route := func(ctx context.Context, job queue.Job) error {
		switch job.Type {
		case queue.TypeSummarize:
			return handler.Handle(ctx, job)
		default:
			log.Printf("unknown job type: %s", job.Type)
			return nil
		}
	}
	go func() {
		log.Printf("Starting %d background workers", cfg.WorkerCount)
		if err := worker.StartWorkers(workerCtx, jobQueue, route, cfg.WorkerCount); err != nil {
			log.Printf("worker error: %v", err)
		}
	}()

	srv := server.New(
		chk,
		cache.New(cfg.Cache.Entries, time.Duration(cfg.Cache.TTLMinutes)*time.Minute),
		ratelimit.New(cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second),
		docs, sums, events, tracker, jobQueue, indexer, appLog,
	)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: srv.Routes(),
	}

	go func() {
		log.Printf("HTTP server listening on %d", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	waitForShutdown(httpServer, workerCancel)
}

// workerIndexer adapts a possibly-nil *search.Indexer to the worker's
// interface. A typed nil interface would defeat the handler's nil check.
func workerIndexer(ix *search.Indexer) worker.ChunkIndexer {
	if ix == nil {
		return nil
	}
	return ix
}

func waitForShutdown(httpServer *http.Server, workerCancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received signal %v, shutting down", sig)

	if workerCancel != nil {
		workerCancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	log.Printf("Shutdown complete")
}
