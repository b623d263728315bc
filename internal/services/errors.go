package services

import "errors"

var (
	// ErrUnknown ошибка хранилища, не связанная с данными запроса.
	ErrUnknown = errors.New("service: unexpected storage error")
	// ErrRecordNotFound закладки с таким ID нет.
	ErrRecordNotFound = errors.New("service: bookmark not found")
	// ErrDuplicateKey закладка с таким ID уже существует.
	ErrDuplicateKey = errors.New("service: bookmark id already exists")
	// ErrInvalidPage номер страницы не число или вне диапазона.
	ErrInvalidPage = errors.New("service: invalid page")
	// ErrStorageUnavailable хранилище не отвечает на ping.
	ErrStorageUnavailable = errors.New("service: storage unavailable")
)
