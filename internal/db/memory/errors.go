package memory

import "errors"

// Ошибки хранилища в памяти.
var (
	ErrNotFound     = errors.New("record not found") // Ключ отсутствует.
	ErrDuplicateKey = errors.New("duplicate key")    // Ключ уже занят.
)
