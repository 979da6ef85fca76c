package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"tutorchat/internal/activities"
	"tutorchat/internal/config"
	"tutorchat/internal/logger"
	"tutorchat/internal/storage"
	"tutorchat/internal/workflows"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		log.Fatal("temporal unavailable", "address", cfg.TemporalAddress, "error", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{})
	workflows.Register(w)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal("postgres unavailable", "error", err)
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		log.Warn("schema check failed", "error", err)
	}
	activities.Register(w, activities.New(cfg, db, log))

	log.Info("tutorchat worker listening",
		"address", cfg.TemporalAddress,
		"queue", cfg.TemporalTaskQueue,
		"downloads_root", cfg.DownloadsRoot,
		"data_out", cfg.DataOutRoot,
	)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatal("worker stopped", "error", err)
	}
}
