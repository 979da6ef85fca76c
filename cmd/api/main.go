package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	tclient "go.temporal.io/sdk/client"

	"tutorchat/internal/api"
	"tutorchat/internal/chat"
	"tutorchat/internal/config"
	"tutorchat/internal/conversation"
	"tutorchat/internal/directory"
	"tutorchat/internal/lesson"
	"tutorchat/internal/logger"
	"tutorchat/internal/providers"
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

	pm, err := providers.NewManager(cfg)
	if err != nil {
		log.Fatal("provider setup failed", "error", err)
	}
	pm.SetObserver(chat.AuditObserver(storage.NewLLMAuditRepo(db), log))

	lessonRepo := storage.NewLessonRepo(db)
	var loader lesson.Loader
	switch strings.ToLower(cfg.LessonLoader) {
	case "temporal":
		tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
		if err != nil {
			log.Fatal("temporal unavailable", "address", cfg.TemporalAddress, "error", err)
		}
		defer tc.Close()
		loader = workflows.NewTemporalLessonLoader(tc, cfg.TemporalTaskQueue, cfg.LessonLoadTimeout)
	default:
		loader = lesson.NewFileLoader(lesson.NewResolver(cfg.DownloadsRoot, lessonRepo, log), lesson.BuiltinFixtures(), log)
	}
	loader = lesson.NewCachingLoader(loader, cfg.LessonCacheTTL)

	history := historyStore(cfg, db, log)
	dir := directory.NewResolver(storage.NewUserRepo(db), log)
	svc := chat.NewService(loader, history, dir, pm, chat.Options{
		HistoryLimit:    cfg.HistoryLimit,
		MaxContextRunes: cfg.MaxContextRunes,
	}, log)

	h := api.NewServer(cfg, api.Deps{Lessons: loader, Chat: svc, Directory: dir, Sources: lessonRepo, Log: log})
	log.Info("tutorchat api listening",
		"addr", cfg.APIAddr,
		"lesson_loader", cfg.LessonLoader,
		"history_backend", cfg.HistoryBackend,
		"llm_providers", pm.Refs(),
		"provider_count", pm.Count(),
	)
	if err := http.ListenAndServe(cfg.APIAddr, h.Routes()); err != nil {
		log.Fatal("api stopped", "error", err)
	}
}

// historyStore falls back to Postgres when Redis is selected but unreachable.
func historyStore(cfg config.Config, db *storage.DB, log *logger.Logger) conversation.HistoryStore {
	if strings.ToLower(cfg.HistoryBackend) != "redis" {
		return storage.NewHistoryRepo(db)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rdb, err := storage.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn("redis history unavailable, using postgres", "error", err)
		return storage.NewHistoryRepo(db)
	}
	return storage.NewRedisHistory(rdb, log)
}
