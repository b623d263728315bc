package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fsdevblog/barky/internal/db/migrations"
)

// NewSQLite открывает базу sqlite и применяет миграции.
//
// Параметры:
//   - ctx: контекст выполнения миграций
//   - dbPath: путь к файлу базы, `:memory:` для базы в памяти
//   - gormLog: журнал запросов gorm, nil - без журнала
//   - logger: логгер приложения
//
// Возвращает:
//   - *gorm.DB: подключение
//   - error: ошибка подключения или миграции
func NewSQLite(ctx context.Context, dbPath string, gormLog gormlogger.Interface, logger *zap.Logger) (*gorm.DB, error) {
	conn, connErr := connectSQLite(dbPath, gormLog)
	if connErr != nil {
		return nil, fmt.Errorf("init database error: %w", connErr)
	}
	if _, migrateErr := migrations.Apply(ctx, conn, migrations.All(), logger); migrateErr != nil {
		return nil, fmt.Errorf("migrate database error: %w", migrateErr)
	}
	return conn, nil
}

func connectSQLite(dbPath string, gormLog gormlogger.Interface) (*gorm.DB, error) {
	if gormLog == nil {
		gormLog = gormlogger.Discard
	}
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		TranslateError: true,
		Logger:         gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database with path %s error: %w", dbPath, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	// sqlite допускает одного писателя; для `:memory:` каждое новое соединение - новая пустая база.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
