package sql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fsdevblog/barky/internal/models"
	"github.com/fsdevblog/barky/internal/repositories"
)

// BookmarkRepo репозиторий закладок в реляционной базе.
type BookmarkRepo struct {
	db *gorm.DB
}

// NewBookmarkRepo создает новый экземпляр репозитория.
//
// Параметры:
//   - db: подключение gorm с примененными миграциями
//
// Возвращает:
//   - *BookmarkRepo: инициализированный репозиторий
func NewBookmarkRepo(db *gorm.DB) *BookmarkRepo {
	return &BookmarkRepo{db: db}
}

// Create сохраняет новую закладку. Нулевой ID назначает база, нулевая дата добавления
// заменяется текущим временем.
//
// Возвращает repositories.ErrDuplicateKey если закладка с таким ID уже есть.
func (r *BookmarkRepo) Create(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	b.Normalize()
	explicitID := b.ID != 0
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, fmt.Errorf("failed to create bookmark %d: %w", b.ID, convertErrorType(err))
	}
	if explicitID {
		if err := r.syncSequence(ctx); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Upsert создает закладку или полностью перезаписывает существующую с тем же ID.
func (r *BookmarkRepo) Upsert(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	b.Normalize()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(b).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert bookmark %d: %w", b.ID, convertErrorType(err))
	}
	if err := r.syncSequence(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// syncSequence сдвигает serial последовательность postgres за максимальный ID.
// Вставка с явным ID ее не двигает, и следующая вставка без ID получила бы занятый ключ.
// В sqlite колонка AUTOINCREMENT учитывает явные ID сама.
func (r *BookmarkRepo) syncSequence(ctx context.Context) error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	err := r.db.WithContext(ctx).Exec(
		"SELECT setval(pg_get_serial_sequence('bookmarks', 'id'), (SELECT COALESCE(MAX(id), 0) + 1 FROM bookmarks), false)",
	).Error
	if err != nil {
		return fmt.Errorf("failed to sync bookmarks id sequence: %w", convertErrorType(err))
	}
	return nil
}

// GetByID находит закладку по идентификатору.
func (r *BookmarkRepo) GetByID(ctx context.Context, id uint) (*models.Bookmark, error) {
	var b models.Bookmark
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, fmt.Errorf("failed to get bookmark %d: %w", id, convertErrorType(err))
	}
	b.DateAdded = b.DateAdded.UTC()
	return &b, nil
}

// List возвращает страницу закладок в заданном порядке.
func (r *BookmarkRepo) List(ctx context.Context, params repositories.ListParams) ([]models.Bookmark, error) {
	tx := r.db.WithContext(ctx).Order(params.OrderingOrDefault().SQL())
	if params.Offset > 0 {
		tx = tx.Offset(params.Offset)
	}
	if params.Limit > 0 {
		tx = tx.Limit(params.Limit)
	}

	var items []models.Bookmark
	if err := tx.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", convertErrorType(err))
	}
	for i := range items {
		items[i].DateAdded = items[i].DateAdded.UTC()
	}
	return items, nil
}

// Count возвращает общее количество закладок.
func (r *BookmarkRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Bookmark{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count bookmarks: %w", convertErrorType(err))
	}
	return total, nil
}

// Update перезаписывает все поля существующей закладки.
//
// Возвращает repositories.ErrNotFound если закладки с b.ID нет.
func (r *BookmarkRepo) Update(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	b.Normalize()
	res := r.db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("id = ?", b.ID).
		Select("title", "url", "notes", "date_added").
		Updates(b)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update bookmark %d: %w", b.ID, convertErrorType(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("failed to update bookmark %d: %w", b.ID, repositories.ErrNotFound)
	}
	return b, nil
}

// Delete удаляет закладку без возможности восстановления.
//
// Возвращает repositories.ErrNotFound если закладки нет.
func (r *BookmarkRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Bookmark{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete bookmark %d: %w", id, convertErrorType(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to delete bookmark %d: %w", id, repositories.ErrNotFound)
	}
	return nil
}
