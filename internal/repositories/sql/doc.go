// Package sql предоставляет реализацию репозитория закладок поверх gorm (sqlite и PostgreSQL).
//
// Подключение открывается с TranslateError, поэтому ошибки драйверов приходят уже в виде ошибок gorm
// и преобразуются в общие ошибки уровня репозитория с помощью convertErrorType:
//   - gorm.ErrDuplicatedKey -> repositories.ErrDuplicateKey
//   - gorm.ErrRecordNotFound -> repositories.ErrNotFound
//   - другие ошибки -> repositories.ErrUnknown
package sql
