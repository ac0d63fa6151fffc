// The task purger hard-deletes soft-deleted tasks past their retention
// window. Intended to run as a cron job.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	taskpostgres "github.com/taskhive/taskhive-api/internal/domains/tasks/adapters/persistence/postgres"
	"github.com/taskhive/taskhive-api/internal/platform/persistence"
	platformpostgres "github.com/taskhive/taskhive-api/internal/platform/postgres"
)

const defaultRetention = 30 * 24 * time.Hour

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if dsn == "" {
		log.Fatal("POSTGRES_DSN not set; cannot purge tasks")
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer platformpostgres.Close(db)

	repo := taskpostgres.NewRepository(persistence.NewContext(db, persistence.WithLogger(logger)))
	cutoff := time.Now().UTC().Add(-retentionFromEnv())
	purged, err := repo.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		log.Fatalf("failed to purge tasks: %v", err)
	}
	logger.Info("task purge completed",
		slog.Int64("purged", purged),
		slog.Time("cutoff", cutoff))
}

func retentionFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("PURGE_RETENTION_DAYS"))
	if raw == "" {
		return defaultRetention
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return defaultRetention
	}
	return time.Duration(days) * 24 * time.Hour
}
