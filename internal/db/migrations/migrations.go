// Package migrations содержит версионированный журнал изменений схемы.
//
// Каждая миграция описывает схему через "замороженную" структуру на момент своей версии,
// а не через актуальную модель, поэтому дальнейшие изменения models.Bookmark не меняют
// уже применённые шаги. Применённые версии записываются в таблицу schema_migrations.
package migrations

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migration один шаг изменения схемы.
type Migration struct {
	Version uint
	Name    string
	Up      func(tx *gorm.DB) error
}

// SchemaMigration запись журнала о применённой миграции.
type SchemaMigration struct {
	Version   uint   `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"size:255;not null"`
	AppliedAt time.Time
}

func (SchemaMigration) TableName() string {
	return "schema_migrations"
}

// bookmarkV1 схема таблицы закладок в версии 1.
type bookmarkV1 struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:255;not null"`
	URL       string    `gorm:"size:200;not null"`
	Notes     string    `gorm:"type:text;not null;default:''"`
	DateAdded time.Time `gorm:"not null"`
}

func (bookmarkV1) TableName() string { return "bookmarks" }

// bookmarkV2 добавляет индекс для сортировки по дате.
type bookmarkV2 struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:255;not null"`
	URL       string    `gorm:"size:200;not null"`
	Notes     string    `gorm:"type:text;not null;default:''"`
	DateAdded time.Time `gorm:"not null;index:idx_bookmarks_date_added"`
}

func (bookmarkV2) TableName() string { return "bookmarks" }

// All журнал миграций приложения в порядке применения.
func All() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_bookmarks",
			Up: func(tx *gorm.DB) error {
				return tx.Migrator().CreateTable(&bookmarkV1{}) //nolint:wrapcheck
			},
		},
		{
			Version: 2,
			Name:    "index_bookmarks_date_added",
			Up: func(tx *gorm.DB) error {
				return tx.Migrator().CreateIndex(&bookmarkV2{}, "idx_bookmarks_date_added") //nolint:wrapcheck
			},
		},
	}
}

// Apply применяет ещё не применённые миграции, каждую в отдельной транзакции.
//
// Параметры:
//   - ctx: контекст выполнения
//   - conn: подключение к базе данных
//   - list: журнал миграций, версии должны строго возрастать
//   - logger: логгер
//
// Возвращает:
//   - []uint: версии, применённые этим вызовом
//   - error: ошибка проверки журнала или применения миграции
func Apply(ctx context.Context, conn *gorm.DB, list []Migration, logger *zap.Logger) ([]uint, error) {
	if err := validate(list); err != nil {
		return nil, err
	}

	db := conn.WithContext(ctx)
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	var done []SchemaMigration
	if err := db.Find(&done).Error; err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	doneSet := make(map[uint]struct{}, len(done))
	for _, d := range done {
		doneSet[d.Version] = struct{}{}
	}

	var applied []uint
	for _, m := range list {
		if _, ok := doneSet[m.Version]; ok {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if upErr := m.Up(tx); upErr != nil {
				return upErr
			}
			return tx.Create(&SchemaMigration{
				Version:   m.Version,
				Name:      m.Name,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return applied, fmt.Errorf("apply migration %d_%s: %w", m.Version, m.Name, err)
		}
		if logger != nil {
			logger.Info("migration applied", zap.Uint("version", m.Version), zap.String("name", m.Name))
		}
		applied = append(applied, m.Version)
	}
	return applied, nil
}

func validate(list []Migration) error {
	var prev uint
	for i, m := range list {
		if m.Up == nil {
			return fmt.Errorf("migration %d_%s has no Up step", m.Version, m.Name)
		}
		if i > 0 && m.Version <= prev {
			return fmt.Errorf("migration versions must increase: %d after %d", m.Version, prev)
		}
		prev = m.Version
	}
	return nil
}
