package controllers

import (
	"context"

	"github.com/fsdevblog/barky/internal/models"
	"github.com/fsdevblog/barky/internal/services"
)

//go:generate mockgen -source=interfaces.go -destination=mocksctrl/store.go -package=mocksctrl

type ConnectionChecker interface {
	CheckConnection(ctx context.Context) error
}

type BookmarkStore interface {
	// Create сохраняет новую закладку. Занятый ID - services.ErrDuplicateKey.
	Create(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error)
	Get(ctx context.Context, id uint) (*models.Bookmark, error)
	// List возвращает страницу закладок. Несуществующая страница - services.ErrInvalidPage.
	List(ctx context.Context, q services.ListQuery) (*services.ListResult, error)
	// Update применяет изменения к закладке с заданным ID.
	Update(ctx context.Context, id uint, changes services.BookmarkChanges) (*models.Bookmark, error)
	Delete(ctx context.Context, id uint) error
}
