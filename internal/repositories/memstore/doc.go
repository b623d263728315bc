// Package memstore репозиторий закладок поверх db.MemoryStorage.
//
// Записи хранятся под ключом-строкой ID, сортировка и окно страницы применяются
// к полной выборке. Идентификаторы выдает последовательность хранилища.
package memstore
