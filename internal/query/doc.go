// Package query разбирает параметры списка ресурса: сортировку (`ordering`) и
// постраничный вывод (`page`), а также строит ссылки на соседние страницы.
//
// Правила сортировки:
//   - несколько полей через запятую, префикс `-` означает убывание;
//   - неизвестные и повторяющиеся поля молча отбрасываются;
//   - в конец всегда добавляется `id` по возрастанию, чтобы порядок был полным и стабильным.
//
// Правила пагинации:
//   - номер страницы начинается с 1, `last` означает последнюю страницу;
//   - пустая коллекция состоит из одной пустой страницы;
//   - любое другое значение вне диапазона приводит к ErrInvalidPage.
package query
