package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fsdevblog/barky/internal/logs"
)

type StorageType string

const (
	StorageTypePostgres StorageType = "postgres"
	StorageTypeSQLite   StorageType = "sqlite"
	StorageTypeInMemory StorageType = "inMemory"
)

type FactoryConfig struct {
	StorageType  StorageType
	PostgresDSN  *string
	SqliteDBPath *string
	// Redis не nil - дополнительно подключается кеш.
	Redis *RedisOptions
}

// Connection открытые подключения к хранилищам. Для реляционных хранилищ заполнен Gorm,
// для хранилища в памяти - Memory.
type Connection struct {
	StorageType StorageType
	Gorm        *gorm.DB
	Memory      *MemoryStorage
	Redis       *redis.Client

	pool *pgxpool.Pool
}

// NewConnectionFactory открывает подключение к хранилищу нужного типа.
func NewConnectionFactory(ctx context.Context, config FactoryConfig, logger *zap.Logger) (*Connection, error) {
	conn := &Connection{StorageType: config.StorageType}
	gormLog := logs.NewGormLogger(logger, 0)

	switch config.StorageType {
	case StorageTypePostgres:
		if config.PostgresDSN == nil || *config.PostgresDSN == "" {
			return nil, errors.New("postgres dsn is empty")
		}
		pool, err := NewPostgresConnection(ctx, *config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres connection: %w", err)
		}
		conn.pool = pool
		g, err := NewPostgres(ctx, pool, gormLog, logger)
		if err != nil {
			pool.Close()
			return nil, err
		}
		conn.Gorm = g
	case StorageTypeSQLite:
		if config.SqliteDBPath == nil || *config.SqliteDBPath == "" {
			return nil, errors.New("sqlite path is empty")
		}
		g, err := NewSQLite(ctx, *config.SqliteDBPath, gormLog, logger)
		if err != nil {
			return nil, err
		}
		conn.Gorm = g
	case StorageTypeInMemory:
		conn.Memory = NewMemStorage()
	default:
		return nil, fmt.Errorf("unknown storage type: %s", config.StorageType)
	}

	if config.Redis != nil {
		client, err := NewRedis(ctx, *config.Redis, logger)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to create redis connection: %w", err)
		}
		conn.Redis = client
	}
	return conn, nil
}

// Ping проверяет доступность основного хранилища.
func (c *Connection) Ping(ctx context.Context) error {
	switch {
	case c.Gorm != nil:
		sqlDB, err := c.Gorm.DB()
		if err != nil {
			return fmt.Errorf("get sql.DB: %w", err)
		}
		return sqlDB.PingContext(ctx) //nolint:wrapcheck
	case c.Memory != nil:
		return c.Memory.Ping(ctx) //nolint:wrapcheck
	default:
		return errors.New("connection is not initialized")
	}
}

// Close закрывает все открытые подключения.
func (c *Connection) Close() error {
	var err error
	if c.Gorm != nil {
		if sqlDB, dbErr := c.Gorm.DB(); dbErr == nil {
			err = errors.Join(err, sqlDB.Close())
		}
	}
	if c.pool != nil {
		c.pool.Close()
	}
	if c.Redis != nil {
		err = errors.Join(err, c.Redis.Close())
	}
	return err
}
