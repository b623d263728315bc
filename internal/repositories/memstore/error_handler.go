package memstore

import (
	"errors"
	"fmt"

	"github.com/fsdevblog/barky/internal/db/memory"
	"github.com/fsdevblog/barky/internal/repositories"
)

// convertErrorType оборачивает ошибку хранилища в памяти в ошибку уровня репозитория,
// сохраняя исходный текст. Ошибки контекста и все прочие становятся repositories.ErrUnknown.
func convertErrorType(err error) error {
	if err == nil {
		return nil
	}
	target := repositories.ErrUnknown
	switch {
	case errors.Is(err, memory.ErrDuplicateKey):
		target = repositories.ErrDuplicateKey
	case errors.Is(err, memory.ErrNotFound):
		target = repositories.ErrNotFound
	}
	return fmt.Errorf("%w: %s", target, err.Error())
}
