// Command server runs the to-do HTTP API.
//
// @title                       Todo API
// @version                     1.0
// @description                 To-do list API with account registration, JWT bearer authentication and owner-scoped items.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/todoapp/todo-api/internal/api"
	"github.com/todoapp/todo-api/internal/api/handler"
	"github.com/todoapp/todo-api/internal/core/ports"
	"github.com/todoapp/todo-api/internal/core/service"
	"github.com/todoapp/todo-api/internal/infrastructure/db/mongo"
	"github.com/todoapp/todo-api/internal/infrastructure/db/postgres"
	"github.com/todoapp/todo-api/internal/infrastructure/db/redis"
	"github.com/todoapp/todo-api/internal/pkg/config"
	"github.com/todoapp/todo-api/internal/pkg/token"
	"github.com/todoapp/todo-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "todo-api: %v\n", err)
		os.Exit(1)
	}
}

// stores bundles the selected backend with its readiness checks and cleanup.
type stores struct {
	accounts ports.AccountRepository
	todos    ports.TodoRepository
	deps     []handler.Dependency
	closers  []func(context.Context) error
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "todo-api",
	})

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		for _, c := range st.closers {
			if err := c(closeCtx); err != nil {
				log.Warn().Err(err).Msg("close store")
			}
		}
	}()

	var idem ports.IdempotencyStore
	if cfg.IdempotencyEnabled() {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, idempotency keys disabled")
		} else {
			idem = redis.NewIdempotencyStore(client)
			st.deps = append(st.deps, handler.Dependency{Name: "redis", Ping: redis.Ping(client)})
			st.closers = append(st.closers, closeRedis(client))
		}
	}

	tokens := token.NewManager(token.Config{
		Key:      []byte(cfg.JWT.Key),
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	})

	e := api.NewRouter(api.Deps{
		AuthService:  service.NewAuthService(st.accounts, tokens, logger.Named("auth")),
		TodoService:  service.NewTodoService(st.todos, idem, logger.Named("todos")),
		Verifier:     tokens,
		Dependencies: st.deps,
		Logger:       logger.Named("http"),
		CORSOrigins:  cfg.CORSOrigins,
		Metrics:      true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: api.ReadHeaderTimeout,
		IdleTimeout:       api.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo store ready")
		return &stores{
			accounts: mongo.NewAccountRepository(db),
			todos:    mongo.NewTodoRepository(db),
			deps:     []handler.Dependency{{Name: "mongo", Ping: mongo.Ping(client)}},
			closers:  []func(context.Context) error{disconnectMongo(client)},
		}, nil

	default:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Msg("postgres store ready")
		return &stores{
			accounts: postgres.NewAccountRepository(db),
			todos:    postgres.NewTodoRepository(db),
			deps:     []handler.Dependency{{Name: "postgres", Ping: db.PingContext}},
			closers:  []func(context.Context) error{closeSQL(db)},
		}, nil
	}
}

func closeSQL(db *sql.DB) func(context.Context) error {
	return func(context.Context) error { return db.Close() }
}

func disconnectMongo(client *mongodriver.Client) func(context.Context) error {
	return client.Disconnect
}

func closeRedis(client *goredis.Client) func(context.Context) error {
	return func(context.Context) error { return client.Close() }
}
