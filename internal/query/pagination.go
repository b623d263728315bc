package query

import (
	"errors"
	"net/url"
	"strconv"
)

// PageParam имя query параметра номера страницы.
const PageParam = "page"

// lastPageKeyword значение `page`, выбирающее последнюю страницу.
const lastPageKeyword = "last"

// ErrInvalidPage номер страницы не распознан или вне диапазона.
var ErrInvalidPage = errors.New("invalid page")

// Page окно выборки для одной страницы.
type Page struct {
	Number int   // Номер страницы, начиная с 1.
	Size   int   // Размер страницы.
	Total  int64 // Общее количество записей в коллекции.
}

// ResolvePage вычисляет страницу по значению параметра `page`.
//
// Параметры:
//   - raw: значение параметра, пустая строка означает первую страницу
//   - size: размер страницы, должен быть больше 0
//   - total: количество записей в коллекции
//
// Возвращает:
//   - Page: окно выборки
//   - error: ErrInvalidPage, если номер не распознан или вне диапазона
func ResolvePage(raw string, size int, total int64) (Page, error) {
	if size <= 0 {
		return Page{}, errors.New("page size must be positive")
	}
	p := Page{Number: 1, Size: size, Total: total}
	lastPage := p.Count()

	switch raw {
	case "":
		return p, nil
	case lastPageKeyword:
		p.Number = lastPage
		return p, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > lastPage {
		return Page{}, ErrInvalidPage
	}
	p.Number = n
	return p, nil
}

// Count количество страниц. Пустая коллекция состоит из одной пустой страницы.
func (p Page) Count() int {
	if p.Total == 0 {
		return 1
	}
	size := int64(p.Size)
	return int((p.Total + size - 1) / size)
}

// Offset смещение первой записи страницы.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Limit максимальное количество записей на странице.
func (p Page) Limit() int {
	return p.Size
}

// HasNext есть ли следующая страница.
func (p Page) HasNext() bool {
	return p.Number < p.Count()
}

// HasPrevious есть ли предыдущая страница.
func (p Page) HasPrevious() bool {
	return p.Number > 1
}

// NextURL ссылка на следующую страницу или nil.
func (p Page) NextURL(current *url.URL) *string {
	if !p.HasNext() {
		return nil
	}
	return pageURL(current, p.Number+1)
}

// PreviousURL ссылка на предыдущую страницу или nil. Ссылка на первую страницу
// не содержит параметра `page`.
func (p Page) PreviousURL(current *url.URL) *string {
	if !p.HasPrevious() {
		return nil
	}
	return pageURL(current, p.Number-1)
}

func pageURL(current *url.URL, number int) *string {
	u := *current
	q := u.Query()
	if number == 1 {
		q.Del(PageParam)
	} else {
		q.Set(PageParam, strconv.Itoa(number))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

// Envelope обёртка ответа списка.
type Envelope[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewEnvelope собирает обёртку для страницы. results никогда не сериализуется в null.
func NewEnvelope[T any](p Page, current *url.URL, results []T) Envelope[T] {
	if results == nil {
		results = []T{}
	}
	return Envelope[T]{
		Count:    p.Total,
		Next:     p.NextURL(current),
		Previous: p.PreviousURL(current),
		Results:  results,
	}
}
