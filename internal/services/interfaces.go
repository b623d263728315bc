package services

import (
	"context"

	"github.com/fsdevblog/barky/internal/models"
	"github.com/fsdevblog/barky/internal/repositories"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock.go -package=mocks

// BookmarkRepository описывает репозиторий закладок.
type BookmarkRepository interface {
	// Create сохраняет новую закладку. Дубликат ID - repositories.ErrDuplicateKey.
	Create(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error)
	// Upsert создает закладку или перезаписывает существующую с тем же ID.
	Upsert(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error)
	// GetByID находит закладку по ID.
	GetByID(ctx context.Context, id uint) (*models.Bookmark, error)
	// List возвращает окно закладок в заданном порядке.
	List(ctx context.Context, params repositories.ListParams) ([]models.Bookmark, error)
	// Count общее количество закладок.
	Count(ctx context.Context) (int64, error)
	// Update перезаписывает все поля существующей закладки.
	Update(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error)
	// Delete удаляет закладку.
	Delete(ctx context.Context, id uint) error
}
