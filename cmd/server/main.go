// @title        Community Site API
// @version      1.0
// @description  Assistant chat, site content and user accounts for the gaming community site.
// @BasePath     /api
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/indrikh/siteCloneWithAi/internal/api"
	"github.com/indrikh/siteCloneWithAi/internal/core/ports"
	"github.com/indrikh/siteCloneWithAi/internal/core/service"
	"github.com/indrikh/siteCloneWithAi/internal/infrastructure/completion"
	mongostore "github.com/indrikh/siteCloneWithAi/internal/infrastructure/db/mongo"
	redisstore "github.com/indrikh/siteCloneWithAi/internal/infrastructure/db/redis"
	"github.com/indrikh/siteCloneWithAi/internal/infrastructure/queue"
	"github.com/indrikh/siteCloneWithAi/internal/infrastructure/ratelimit"
	"github.com/indrikh/siteCloneWithAi/internal/pkg/config"
	"github.com/indrikh/siteCloneWithAi/internal/pkg/content"
	"github.com/indrikh/siteCloneWithAi/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "site-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		stop()
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	// --- Optional transcript archive ---
	var (
		mongoDB    *mongo.Database
		archiver   ports.MessageArchiver
		dispatcher *queue.Dispatcher
	)
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if cfg.ArchiveEnabled() {
		archive, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			if err := archive.Close(); err != nil {
				log.Error().Err(err).Msg("mongo disconnect failed")
			}
		}()

		repo := mongostore.NewArchiveRepository(archive.DB)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("transcript index not created")
		}
		dispatcher = queue.NewDispatcher(cfg.Mongo.Workers, repo, logger.For("archive"))
		dispatcher.Start(workerCtx)
		mongoDB, archiver = archive.DB, dispatcher
		log.Info().Str("database", cfg.Mongo.Database).Int("workers", cfg.Mongo.Workers).Msg("transcript archive enabled")
	}

	// --- Services ---
	defaults, err := content.Defaults()
	if err != nil {
		return err
	}
	historySvc := service.NewHistoryService(redisstore.NewHistoryStore(rdb, logger.For("history")), archiver, logger.For("history"))
	completer := completion.NewClient(completion.Config{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Timeout:     cfg.OpenAI.Timeout,
		MaxAttempts: cfg.OpenAI.MaxAttempts,
	}, logger.For("completion"))
	if cfg.OpenAI.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is empty, chat completions will fail")
	}

	deps := api.Deps{
		Log:          log,
		History:      historySvc,
		Chat:         service.NewChatService(historySvc, completer, logger.For("chat")),
		Auth:         service.NewAuthService(redisstore.NewUserStore(rdb), redisstore.NewTokenStore(rdb), 0, logger.For("auth")),
		Content:      service.NewContentService(redisstore.NewContentStore(rdb), defaults, logger.For("content")),
		Redis:        rdb,
		Mongo:        mongoDB,
		Debug:        !cfg.IsProduction(),
		StaticDir:    cfg.StaticDir,
		AllowOrigins: cfg.CORSAllowOrigins,
	}
	if cfg.RateLimit.ChatPerWindow > 0 {
		limiter, err := ratelimit.NewFixedWindowLimiter(rdb, "ratelimit", cfg.RateLimit.ChatPerWindow, cfg.RateLimit.Window)
		if err != nil {
			return err
		}
		deps.ChatLimiter = limiter
	}

	e := api.NewRouter(deps)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	})

	err = g.Wait()
	if dispatcher != nil {
		// Requests are drained; flush what is queued before closing Mongo.
		dispatcher.Close()
	}
	return err
}
