// Package server wires configuration, storage, services and the HTTP API
// together and runs them until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/httpapi"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
)

const (
	pingTimeout = 5 * time.Second
	pingRetries = 3
	pingBackoff = 200 * time.Millisecond
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	server      *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	generated, err := c.EnsureSecret()
	if err != nil {
		return nil, err
	}
	if generated {
		logger.Warn(ctx, "no secret key configured, using a random one; tokens will not survive a restart")
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	rm, err := newRepositoryManager(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	ts := services.NewTokenService(rm, c)
	us := services.NewUserService(rm, ts, c)
	tks := services.NewTaskService(rm)

	srv := httpapi.NewServer(c, logger, us, ts, tks)

	return &App{config: c, logger: logger, repomanager: rm, server: srv}, nil
}

// newRepositoryManager picks the backend named by the DSN.
func newRepositoryManager(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == config.MemoryDSN {
		return repomanager.NewMemoryRepositoryManager(), nil
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := ping(ctx, db.PingContext); err != nil {
		_ = db.Close()
		return nil, err
	}

	var opts []repomanager.Option
	if c.TokenStore == config.TokenStoreRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		redisPing := func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		if err := ping(ctx, redisPing); err != nil {
			_ = rdb.Close()
			_ = db.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		opts = append(opts, repomanager.WithRedisTokens(rdb, c.TokenValidityDuration))
	}

	return repomanager.NewPostgresRepositoryManager(db, opts...), nil
}

// ping retries fn with exponential backoff so the server can start
// alongside its dependencies.
func ping(ctx context.Context, fn func(context.Context) error) error {
	b := retry.WithMaxRetries(pingRetries, retry.NewExponential(pingBackoff))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()

		if err := fn(attemptCtx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "closing storage", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
