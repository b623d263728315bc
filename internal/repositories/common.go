package repositories

import "github.com/fsdevblog/barky/internal/query"

// ListParams параметры выборки списка закладок.
type ListParams struct {
	Ordering query.Ordering // Порядок сортировки, пустой - query.DefaultOrdering
	Offset   int            // Сколько записей пропустить
	Limit    int            // Размер выборки, <= 0 - без ограничения
}

// OrderingOrDefault возвращает заданный порядок сортировки или порядок по умолчанию.
func (p ListParams) OrderingOrDefault() query.Ordering {
	if len(p.Ordering) == 0 {
		return query.DefaultOrdering()
	}
	return p.Ordering
}
