package cached

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/fsdevblog/barky/internal/models"
	"github.com/fsdevblog/barky/internal/repositories"
)

// Repository методы репозитория закладок, которые оборачивает кеш.
type Repository interface {
	Create(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error)
	Upsert(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error)
	GetByID(ctx context.Context, id uint) (*models.Bookmark, error)
	List(ctx context.Context, params repositories.ListParams) ([]models.Bookmark, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error)
	Delete(ctx context.Context, id uint) error
}

// BookmarkRepo репозиторий с кешем чтения по ID.
type BookmarkRepo struct {
	next   Repository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewBookmarkRepo создает обертку над next.
//
// Параметры:
//   - next: основной репозиторий
//   - cache: кеш
//   - ttl: время жизни записи в кеше
//   - logger: логгер для ошибок кеша
//
// Возвращает:
//   - *BookmarkRepo: репозиторий с кешем
func NewBookmarkRepo(next Repository, cache Cache, ttl time.Duration, logger *zap.Logger) *BookmarkRepo {
	return &BookmarkRepo{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(zap.String("module", "repositories/cached")),
	}
}

func cacheKey(id uint) string {
	return "bookmark:" + strconv.FormatUint(uint64(id), 10)
}

func (r *BookmarkRepo) GetByID(ctx context.Context, id uint) (*models.Bookmark, error) {
	k := cacheKey(id)
	raw, err := r.cache.Get(ctx, k)
	switch {
	case err == nil:
		var b models.Bookmark
		if jsonErr := json.Unmarshal(raw, &b); jsonErr == nil {
			return &b, nil
		}
		r.logger.Warn("broken cache entry", zap.String("key", k))
	case !errors.Is(err, ErrCacheMiss):
		r.logger.Warn("cache get failed", zap.String("key", k), zap.Error(err))
	}

	b, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if raw, jsonErr := json.Marshal(b); jsonErr == nil {
		if setErr := r.cache.Set(ctx, k, raw, r.ttl); setErr != nil {
			r.logger.Warn("cache set failed", zap.String("key", k), zap.Error(setErr))
		}
	}
	return b, nil
}

func (r *BookmarkRepo) Create(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	res, err := r.next.Create(ctx, b)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	r.invalidate(ctx, res.ID)
	return res, nil
}

func (r *BookmarkRepo) Upsert(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	res, err := r.next.Upsert(ctx, b)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	r.invalidate(ctx, res.ID)
	return res, nil
}

func (r *BookmarkRepo) Update(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	// Ключ сбрасывается и до, и после записи.
	r.invalidate(ctx, b.ID)
	res, err := r.next.Update(ctx, b)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	r.invalidate(ctx, b.ID)
	return res, nil
}

func (r *BookmarkRepo) Delete(ctx context.Context, id uint) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err //nolint:wrapcheck
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *BookmarkRepo) List(ctx context.Context, params repositories.ListParams) ([]models.Bookmark, error) {
	return r.next.List(ctx, params) //nolint:wrapcheck
}

func (r *BookmarkRepo) Count(ctx context.Context) (int64, error) {
	return r.next.Count(ctx) //nolint:wrapcheck
}

func (r *BookmarkRepo) invalidate(ctx context.Context, id uint) {
	if err := r.cache.Del(ctx, cacheKey(id)); err != nil {
		r.logger.Warn("cache invalidation failed", zap.Uint("id", id), zap.Error(err))
	}
}
