package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/fsdevblog/barky/internal/models"
	"github.com/fsdevblog/barky/internal/repositories"
)

// ErrUnsupportedFixture расширение файла фикстур не поддерживается.
var ErrUnsupportedFixture = errors.New("unsupported fixture format, expected .json, .yaml or .yml")

type fixtureFormat int

const (
	fixtureJSON fixtureFormat = iota
	fixtureYAML
)

func detectFixtureFormat(path string) (fixtureFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return fixtureJSON, nil
	case ".yaml", ".yml":
		return fixtureYAML, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedFixture, "file `%s`", path)
	}
}

// RestoreFixtures загружает закладки из файла в хранилище. Закладки с совпадающими ID
// перезаписываются, без ID - получают следующий свободный. Отсутствующий файл не ошибка.
//
// Параметры:
//   - ctx: контекст выполнения
//   - path: путь к файлу .json, .yaml или .yml
//
// Возвращает:
//   - int: количество загруженных закладок
//   - error: ошибка чтения, разбора или записи
func (s *BookmarkService) RestoreFixtures(ctx context.Context, path string) (int, error) {
	format, err := detectFixtureFormat(path)
	if err != nil {
		return 0, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "read fixture file `%s`", path)
	}

	var items []models.Bookmark
	switch format {
	case fixtureJSON:
		err = json.Unmarshal(raw, &items)
	case fixtureYAML:
		err = yaml.Unmarshal(raw, &items)
	}
	if err != nil {
		return 0, errors.Wrapf(err, "decode fixture file `%s`", path)
	}

	for i := range items {
		if _, upsertErr := s.repo.Upsert(ctx, &items[i]); upsertErr != nil {
			return i, errors.Wrapf(upsertErr, "restore bookmark %d", items[i].ID)
		}
	}
	return len(items), nil
}

// DumpFixtures сохраняет все закладки в файл, порядок по ID.
//
// Возвращает количество сохраненных закладок.
func (s *BookmarkService) DumpFixtures(ctx context.Context, path string) (int, error) {
	format, err := detectFixtureFormat(path)
	if err != nil {
		return 0, err
	}
	items, err := s.repo.List(ctx, repositories.ListParams{})
	if err != nil {
		return 0, errors.Wrap(err, "list bookmarks for dump")
	}
	if items == nil {
		items = []models.Bookmark{}
	}

	var raw []byte
	switch format {
	case fixtureJSON:
		raw, err = json.MarshalIndent(items, "", "  ")
	case fixtureYAML:
		raw, err = yaml.Marshal(items)
	}
	if err != nil {
		return 0, errors.Wrap(err, "encode fixtures")
	}

	dir := filepath.Dir(path)
	if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil { //nolint:mnd
		return 0, errors.Wrapf(mkErr, "create dir `%s`", dir)
	}
	// Файл заменяется целиком через rename.
	tmp := path + ".tmp"
	if writeErr := os.WriteFile(tmp, raw, 0o600); writeErr != nil { //nolint:mnd
		return 0, errors.Wrapf(writeErr, "write fixture file `%s`", tmp)
	}
	if renameErr := os.Rename(tmp, path); renameErr != nil {
		return 0, errors.Wrapf(renameErr, "rename `%s` to `%s`", tmp, path)
	}
	return len(items), nil
}
