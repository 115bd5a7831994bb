package repomanager

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/migrations"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories. When a Redis
// client is attached, tokens live in Redis instead of the tokens table.
type PostgresRepositoryManager struct {
	db       *sql.DB
	rdb      *redis.Client
	tokenTTL time.Duration
}

type Option func(*PostgresRepositoryManager)

// WithRedisTokens stores tokens in Redis with the given expiry (0 keeps them
// until revoked). The manager closes the client on Close.
func WithRedisTokens(rdb *redis.Client, ttl time.Duration) Option {
	return func(m *PostgresRepositoryManager) {
		m.rdb = rdb
		m.tokenTTL = ttl
	}
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(db *sql.DB, opts ...Option) *PostgresRepositoryManager {
	m := &PostgresRepositoryManager{db: db}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *PostgresRepositoryManager) Conn() dbx.DBTX {
	return m.db
}

func (m *PostgresRepositoryManager) WithinTx(ctx context.Context, fn dbx.TxFunc) error {
	return dbx.WithTx(ctx, m.db, nil, fn)
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Tasks returns a tasks.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Tasks(db dbx.DBTX) tasks.Repository {
	return tasks.NewPostgresRepository(db)
}

// Tokens returns the Redis repository when configured, ignoring db.
func (m *PostgresRepositoryManager) Tokens(db dbx.DBTX) tokens.Repository {
	if m.rdb != nil {
		return tokens.NewRedisRepository(m.rdb, m.tokenTTL)
	}
	return tokens.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and applies them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

func (m *PostgresRepositoryManager) Close() error {
	if m.rdb != nil {
		if err := m.rdb.Close(); err != nil {
			return err
		}
	}
	return m.db.Close()
}
