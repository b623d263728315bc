// Package cached оборачивает репозиторий закладок кешем чтения (read-through).
//
// Кешируется только GetByID. Любая запись по ID (Create, Upsert, Update, Delete) удаляет ключ
// из кеша. Ошибки кеша не прерывают запрос: они пишутся в лог, а запрос уходит в репозиторий.
package cached
