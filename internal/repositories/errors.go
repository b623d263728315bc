package repositories

import "errors"

// Ошибки репозиториев закладок. Реализации хранилищ оборачивают в них свои ошибки.
var (
	ErrNotFound     = errors.New("repository: bookmark not found")
	ErrDuplicateKey = errors.New("repository: bookmark id already exists")
	ErrUnknown      = errors.New("repository: storage failure")
)
