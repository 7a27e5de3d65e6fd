// @title                       Postboard API
// @version                     1.0
// @description                 Users, posts and bearer-token authentication with role-based access control.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/postboard/postboard-api/internal/api"
	"github.com/postboard/postboard-api/internal/core/ports"
	"github.com/postboard/postboard-api/internal/core/service"
	mongodb "github.com/postboard/postboard-api/internal/infrastructure/db/mongo"
	"github.com/postboard/postboard-api/internal/infrastructure/db/postgres"
	redisdb "github.com/postboard/postboard-api/internal/infrastructure/db/redis"
	"github.com/postboard/postboard-api/internal/infrastructure/http/handlers"
	natsmsg "github.com/postboard/postboard-api/internal/infrastructure/messaging/nats"
	"github.com/postboard/postboard-api/internal/infrastructure/queue"
	s3storage "github.com/postboard/postboard-api/internal/infrastructure/storage/s3"
	"github.com/postboard/postboard-api/internal/infrastructure/websocket"
	"github.com/postboard/postboard-api/internal/pkg/config"
	"github.com/postboard/postboard-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "postboard-api",
	})

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
	log.Info().Msg("server stopped gracefully")
}

func run(cfg *config.Config) error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		health  []handlers.Dependency
		closers []func()
	)
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	// --- Persistence ---
	users, posts, err := openStore(ctx, cfg, log, &health, &closers)
	if err != nil {
		return err
	}

	// --- Notification sinks ---
	hub := websocket.NewHub(log)
	sinks := []ports.NotificationSink{hub}

	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		sinks = append(sinks, redisdb.NewPublisher(rdb, cfg.Redis.Channel))
		health = append(health, handlers.Dependency{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redisdb.Ping(ctx, rdb) },
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis notification sink enabled")
	}

	if cfg.NATS.URL != "" {
		nc, err := natsmsg.Connect(natsmsg.Config{URL: cfg.NATS.URL, Name: "postboard-api"}, log)
		if err != nil {
			return err
		}
		closers = append(closers, func() { _ = nc.Drain() })
		sinks = append(sinks, natsmsg.NewPublisher(nc, cfg.NATS.Subject))
		health = append(health, handlers.Dependency{
			Name: "nats",
			Ping: func(ctx context.Context) error { return natsmsg.Ping(ctx, nc) },
		})
		log.Info().Str("url", cfg.NATS.URL).Msg("nats notification sink enabled")
	}

	// --- Object storage ---
	var storage ports.ObjectStorage
	if cfg.Storage.Bucket != "" {
		s3c, err := s3storage.NewClient(ctx, s3storage.Config{
			Bucket:          cfg.Storage.Bucket,
			Region:          cfg.Storage.Region,
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
			UsePathStyle:    cfg.Storage.UsePathStyle,
			CreateBucket:    cfg.Storage.CreateBucket,
		}, log)
		if err != nil {
			return err
		}
		storage = s3c
		health = append(health, handlers.Dependency{Name: "s3", Ping: s3c.Ping})
	} else {
		log.Info().Msg("S3_BUCKET not set; profile picture uploads disabled")
	}

	// --- Dispatcher ---
	dispatchCtx, cancelDispatch := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(queue.Options{
		Workers:     cfg.Notify.Workers,
		Buffer:      cfg.Notify.Buffer,
		SinkTimeout: cfg.Notify.SinkTimeout,
	}, sinks, log)
	dispatcher.Start(dispatchCtx)

	// --- Services ---
	credentials := service.NewCredentialService(cfg.JWTSecret, cfg.TokenTTL, service.Argon2Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
	})
	authService := service.NewAuthService(users, credentials, dispatcher, log)
	userService := service.NewUserService(users, credentials, storage, dispatcher, log)
	postService := service.NewPostService(posts, users, dispatcher, log)

	e := api.NewRouter(api.Deps{
		Log:            log,
		APIPrefix:      cfg.APIPrefix,
		Tokens:         credentials,
		Auth:           authService,
		Users:          userService,
		Posts:          postService,
		Hub:            hub,
		Health:         health,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	})

	srvErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-srvErr:
		if err != nil {
			cancelDispatch()
			dispatcher.Wait()
			hub.Close()
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}

	// No request can notify any more; let in-flight deliveries finish.
	cancelDispatch()
	dispatcher.Wait()
	hub.Close()
	return nil
}

// openStore connects the configured persistence backend and returns its
// repositories. Cleanup and readiness checks are appended to the given slices.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger, health *[]handlers.Dependency, closers *[]func()) (ports.UserRepository, ports.PostRepository, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{
			DSN:          cfg.Postgres.DSN,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Postgres.MaxIdleConns,
		})
		if err != nil {
			return nil, nil, err
		}
		*closers = append(*closers, func() { _ = postgres.Close(db) })
		*health = append(*health, handlers.Dependency{
			Name: "postgres",
			Ping: func(ctx context.Context) error { return postgres.Ping(ctx, db) },
		})
		log.Info().Msg("using postgres store")
		return postgres.NewUserRepository(db), postgres.NewPostRepository(db), nil

	default:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "postboard-api",
		})
		if err != nil {
			return nil, nil, err
		}
		*closers = append(*closers, func() { _ = mongodb.Disconnect(client) })
		*health = append(*health, handlers.Dependency{
			Name: "mongo",
			Ping: func(ctx context.Context) error { return mongodb.Ping(ctx, client) },
		})

		users := mongodb.NewUserRepository(db)
		posts := mongodb.NewPostRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}
		if err := posts.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo store")
		return users, posts, nil
	}
}
