package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/barky/internal/models"
	"github.com/fsdevblog/barky/internal/query"
	"github.com/fsdevblog/barky/internal/repositories"
)

// BookmarkChanges изменяемые поля закладки. nil - поле не меняется.
type BookmarkChanges struct {
	Title     *string
	URL       *string
	Notes     *string
	DateAdded *time.Time
}

// apply переносит заданные поля в b.
func (c BookmarkChanges) apply(b *models.Bookmark) {
	if c.Title != nil {
		b.Title = *c.Title
	}
	if c.URL != nil {
		b.URL = *c.URL
	}
	if c.Notes != nil {
		b.Notes = *c.Notes
	}
	if c.DateAdded != nil {
		b.DateAdded = *c.DateAdded
	}
}

// ListQuery параметры запроса списка.
type ListQuery struct {
	Ordering query.Ordering
	Page     string // Сырое значение параметра `page`: номер, `last` или пусто
	PageSize int
}

// ListResult страница закладок.
type ListResult struct {
	Page  query.Page
	Items []models.Bookmark
}

// BookmarkService Сервис работает с закладками поверх репозитория.
type BookmarkService struct {
	repo BookmarkRepository
}

func NewBookmarkService(repo BookmarkRepository) *BookmarkService {
	return &BookmarkService{repo: repo}
}

// Create сохраняет новую закладку.
//
// Возвращает ErrDuplicateKey если ID уже занят.
func (s *BookmarkService) Create(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	created, err := s.repo.Create(ctx, b)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: bookmark %d", ErrDuplicateKey, b.ID)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnknown, err)
	}
	return created, nil
}

// Get возвращает закладку по ID или ErrRecordNotFound.
func (s *BookmarkService) Get(ctx context.Context, id uint) (*models.Bookmark, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, convertRepoError(err, id)
	}
	return b, nil
}

// List возвращает страницу закладок.
//
// Параметры:
//   - ctx: контекст выполнения
//   - q: порядок сортировки, номер и размер страницы
//
// Возвращает:
//   - *ListResult: страница и записи на ней
//   - error: ErrInvalidPage для несуществующей страницы, ErrUnknown для ошибок хранилища
func (s *BookmarkService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: count bookmarks: %w", ErrUnknown, err)
	}
	page, err := query.ResolvePage(q.Page, q.PageSize, total)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPage, q.Page)
	}

	items, err := s.repo.List(ctx, repositories.ListParams{
		Ordering: q.Ordering,
		Offset:   page.Offset(),
		Limit:    page.Limit(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list bookmarks: %w", ErrUnknown, err)
	}
	return &ListResult{Page: page, Items: items}, nil
}

// Update применяет изменения к существующей закладке. Полная замена (PUT) передает все поля,
// частичная (PATCH) только пришедшие. ID закладки не меняется.
//
// Возвращает ErrRecordNotFound если закладки нет.
func (s *BookmarkService) Update(ctx context.Context, id uint, changes BookmarkChanges) (*models.Bookmark, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, convertRepoError(err, id)
	}
	changes.apply(current)
	current.ID = id

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return nil, convertRepoError(err, id)
	}
	return updated, nil
}

// Delete удаляет закладку или возвращает ErrRecordNotFound.
func (s *BookmarkService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return convertRepoError(err, id)
	}
	return nil
}

func convertRepoError(err error, id uint) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: bookmark %d", ErrRecordNotFound, id)
	}
	return fmt.Errorf("%w: bookmark %d: %w", ErrUnknown, id, err)
}
