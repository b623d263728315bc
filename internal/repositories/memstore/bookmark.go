package memstore

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/fsdevblog/barky/internal/db"
	"github.com/fsdevblog/barky/internal/db/memory"
	"github.com/fsdevblog/barky/internal/models"
	"github.com/fsdevblog/barky/internal/repositories"
)

// BookmarkRepo представляет собой репозиторий для работы с закладками в памяти.
type BookmarkRepo struct {
	s *db.MemoryStorage
	// mu сериализует запись: выдача ID и вставка выполняются вместе.
	mu sync.Mutex
}

// NewBookmarkRepo создает новый экземпляр репозитория закладок.
//
// Параметры:
//   - store: экземпляр хранилища в памяти
//
// Возвращает:
//   - *BookmarkRepo: инициализированный репозиторий
func NewBookmarkRepo(store *db.MemoryStorage) *BookmarkRepo {
	return &BookmarkRepo{
		s: store,
	}
}

func key(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Create сохраняет новую закладку.
//
// Параметры:
//   - ctx: контекст выполнения
//   - b: закладка, нулевой ID заменяется следующим свободным
//
// Возвращает:
//   - *models.Bookmark: сохраненная запись
//   - error: ошибка создания (преобразованная через convertErrorType)
func (r *BookmarkRepo) Create(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b.Normalize()
	if b.ID == 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("failed to create bookmark: %w", convertErrorType(err))
		}
		b.ID = r.s.NextID()
	}
	if err := memory.Set[models.Bookmark](ctx, key(b.ID), b, r.s.MStorage); err != nil {
		return nil, fmt.Errorf("failed to create bookmark %d: %w", b.ID, convertErrorType(err))
	}
	r.s.ObserveID(b.ID)
	return b, nil
}

// Upsert создает закладку или перезаписывает существующую с тем же ID.
func (r *BookmarkRepo) Upsert(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	if b.ID == 0 {
		return r.Create(ctx, b)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	b.Normalize()
	if err := memory.Set[models.Bookmark](ctx, key(b.ID), b, r.s.MStorage, memory.WithOverwrite()); err != nil {
		return nil, fmt.Errorf("failed to upsert bookmark %d: %w", b.ID, convertErrorType(err))
	}
	r.s.ObserveID(b.ID)
	return b, nil
}

// GetByID получает закладку по идентификатору.
//
// Параметры:
//   - ctx: контекст выполнения
//   - id: идентификатор закладки
//
// Возвращает:
//   - *models.Bookmark: найденная запись
//   - error: ошибка поиска (преобразованная через convertErrorType)
func (r *BookmarkRepo) GetByID(ctx context.Context, id uint) (*models.Bookmark, error) {
	b, err := memory.Get[models.Bookmark](ctx, key(id), r.s.MStorage)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark %d: %w", id, convertErrorType(err))
	}
	return b, nil
}

// List возвращает закладки, отсортированные по params.Ordering, в окне Offset/Limit.
func (r *BookmarkRepo) List(ctx context.Context, params repositories.ListParams) ([]models.Bookmark, error) {
	all, err := memory.GetAll[models.Bookmark](ctx, r.s.MStorage)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", convertErrorType(err))
	}
	params.OrderingOrDefault().SortBookmarks(all)

	if params.Offset >= len(all) {
		return []models.Bookmark{}, nil
	}
	all = all[max(params.Offset, 0):]
	if params.Limit > 0 && params.Limit < len(all) {
		all = all[:params.Limit]
	}
	return all, nil
}

// Count возвращает количество закладок.
func (r *BookmarkRepo) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("failed to count bookmarks: %w", convertErrorType(err))
	}
	return int64(r.s.Len()), nil
}

// Update перезаписывает существующую закладку.
//
// Параметры:
//   - ctx: контекст выполнения
//   - b: новое состояние закладки, поиск по b.ID
//
// Возвращает:
//   - *models.Bookmark: обновленная запись
//   - error: ошибка обновления (преобразованная через convertErrorType)
func (r *BookmarkRepo) Update(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b.Normalize()
	if err := memory.Update[models.Bookmark](ctx, key(b.ID), b, r.s.MStorage); err != nil {
		return nil, fmt.Errorf("failed to update bookmark %d: %w", b.ID, convertErrorType(err))
	}
	return b, nil
}

// Delete удаляет закладку.
func (r *BookmarkRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := memory.Delete(ctx, key(id), r.s.MStorage); err != nil {
		return fmt.Errorf("failed to delete bookmark %d: %w", id, convertErrorType(err))
	}
	return nil
}
