package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsdevblog/barky/internal/db"
	"github.com/fsdevblog/barky/internal/models"
	"github.com/fsdevblog/barky/internal/query"
	"github.com/fsdevblog/barky/internal/repositories"
)

func fakeBookmark(id uint) *models.Bookmark {
	return &models.Bookmark{
		ID:    id,
		Title: gofakeit.Sentence(3),
		URL:   gofakeit.URL(),
		Notes: gofakeit.Sentence(8),
	}
}

func TestBookmarkRepo_CRUD(t *testing.T) {
	ctx := t.Context()
	repo := NewBookmarkRepo(db.NewMemStorage())

	created, err := repo.Create(ctx, fakeBookmark(99))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, created.DateAdded.Location())

	_, err = repo.Create(ctx, fakeBookmark(99))
	require.ErrorIs(t, err, repositories.ErrDuplicateKey)

	got, err := repo.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.True(t, created.DateAdded.Equal(got.DateAdded))

	got.Title = "updated"
	_, err = repo.Update(ctx, got)
	require.NoError(t, err)
	again, err := repo.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, "updated", again.Title)

	_, err = repo.Update(ctx, fakeBookmark(7))
	require.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, 99))
	require.ErrorIs(t, repo.Delete(ctx, 99), repositories.ErrNotFound)
	_, err = repo.GetByID(ctx, 99)
	require.ErrorIs(t, err, repositories.ErrNotFound)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestBookmarkRepo_AssignsSequentialIDs(t *testing.T) {
	ctx := t.Context()
	repo := NewBookmarkRepo(db.NewMemStorage())

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, fakeBookmark(0))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := repo.List(ctx, repositories.ListParams{})
	require.NoError(t, err)
	require.Len(t, all, 20)
	for i, b := range all {
		assert.Equal(t, uint(i+1), b.ID)
	}
}

func TestBookmarkRepo_List(t *testing.T) {
	ctx := t.Context()
	repo := NewBookmarkRepo(db.NewMemStorage())
	for i, title := range []string{"Google", "Awesome Django", "Github"} {
		_, err := repo.Create(ctx, &models.Bookmark{ID: uint(i + 1), Title: title, URL: "https://example.com"})
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		params repositories.ListParams
		want   []string
	}{
		{
			name:   "default ordering by id",
			params: repositories.ListParams{},
			want:   []string{"Google", "Awesome Django", "Github"},
		},
		{
			name:   "by title",
			params: repositories.ListParams{Ordering: query.ParseOrdering("title", query.BookmarkOrderingFields...)},
			want:   []string{"Awesome Django", "Github", "Google"},
		},
		{
			name:   "by title desc with window",
			params: repositories.ListParams{Ordering: query.ParseOrdering("-title", query.BookmarkOrderingFields...), Offset: 1, Limit: 1},
			want:   []string{"Github"},
		},
		{
			name:   "offset out of range",
			params: repositories.ListParams{Offset: 10},
			want:   []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := repo.List(ctx, tt.params)
			require.NoError(t, err)
			titles := make([]string, 0, len(items))
			for _, b := range items {
				titles = append(titles, b.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestBookmarkRepo_Upsert(t *testing.T) {
	ctx := t.Context()
	repo := NewBookmarkRepo(db.NewMemStorage())
	_, err := repo.Upsert(ctx, &models.Bookmark{ID: 3, Title: "a", URL: "https://a.example"})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, &models.Bookmark{ID: 3, Title: "b", URL: "https://b.example"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Title)

	b, err := repo.Upsert(ctx, &models.Bookmark{Title: "c", URL: "https://c.example"})
	require.NoError(t, err)
	assert.Equal(t, uint(4), b.ID)
}

func TestBookmarkRepo_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	repo := NewBookmarkRepo(db.NewMemStorage())

	_, err := repo.GetByID(ctx, 1)
	require.ErrorIs(t, err, repositories.ErrUnknown)
	_, err = repo.Count(ctx)
	require.ErrorIs(t, err, repositories.ErrUnknown)
}

func TestBookmarkRepo_DoesNotReuseDeletedIDs(t *testing.T) {
	ctx := t.Context()
	repo := NewBookmarkRepo(db.NewMemStorage())

	_, err := repo.Create(ctx, fakeBookmark(5))
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, 5))

	b, err := repo.Create(ctx, fakeBookmark(0))
	require.NoError(t, err)
	assert.Equal(t, uint(6), b.ID)
}
