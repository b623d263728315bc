package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fsdevblog/barky/internal/db"
	"github.com/fsdevblog/barky/internal/repositories/cached"
	"github.com/fsdevblog/barky/internal/repositories/memstore"
	"github.com/fsdevblog/barky/internal/repositories/sql"
)

const cacheKeyPrefix = "barky:"

type Services struct {
	BookmarkService *BookmarkService
	PingService     *PingService
}

type FactoryOptions struct {
	CacheTTL time.Duration // Время жизни записи в Redis, если conn.Redis задан
	Logger   *zap.Logger
}

// Factory собирает сервисный слой поверх открытого подключения.
func Factory(conn *db.Connection, opts FactoryOptions) (*Services, error) {
	if conn == nil {
		return nil, errors.New("connection is nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var repo BookmarkRepository
	switch conn.StorageType {
	case db.StorageTypePostgres, db.StorageTypeSQLite:
		if conn.Gorm == nil {
			return nil, errors.New("invalid connection: gorm is not initialized")
		}
		repo = sql.NewBookmarkRepo(conn.Gorm)
	case db.StorageTypeInMemory:
		if conn.Memory == nil {
			return nil, errors.New("invalid connection: memory storage is not initialized")
		}
		repo = memstore.NewBookmarkRepo(conn.Memory)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", conn.StorageType)
	}

	if conn.Redis != nil {
		repo = cached.NewBookmarkRepo(repo, cached.NewRedisCache(conn.Redis, cacheKeyPrefix), opts.CacheTTL, logger)
	}

	return &Services{
		BookmarkService: NewBookmarkService(repo),
		PingService:     NewPingService(conn),
	}, nil
}
