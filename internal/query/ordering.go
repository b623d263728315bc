package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/fsdevblog/barky/internal/models"
)

// Поля, по которым разрешена сортировка закладок.
const (
	FieldID        = "id"
	FieldTitle     = "title"
	FieldDateAdded = "date_added"
)

// OrderingParam имя query параметра сортировки.
const OrderingParam = "ordering"

// BookmarkOrderingFields поля закладки, доступные для сортировки.
var BookmarkOrderingFields = []string{FieldID, FieldTitle, FieldDateAdded} //nolint:gochecknoglobals

// OrderTerm одно поле сортировки.
type OrderTerm struct {
	Field string
	Desc  bool
}

// Ordering упорядоченный список полей сортировки.
type Ordering []OrderTerm

// DefaultOrdering порядок по умолчанию - порядок вставки.
func DefaultOrdering() Ordering {
	return Ordering{{Field: FieldID}}
}

// ParseOrdering разбирает значение параметра `ordering`.
//
// Параметры:
//   - raw: значение параметра, например `-date_added,title`
//   - allowed: допустимые имена полей
//
// Возвращает:
//   - Ordering: распознанные поля с добавленным в конец `id`. Если ни одно поле не распознано -
//     DefaultOrdering.
func ParseOrdering(raw string, allowed ...string) Ordering {
	var result Ordering
	seen := make(map[string]struct{}, len(allowed))

	for _, part := range strings.Split(raw, ",") {
		term := strings.TrimSpace(part)
		desc := strings.HasPrefix(term, "-")
		field := strings.TrimPrefix(term, "-")

		if field == "" || !slices.Contains(allowed, field) {
			continue
		}
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		result = append(result, OrderTerm{Field: field, Desc: desc})
	}

	if len(result) == 0 {
		return DefaultOrdering()
	}
	return result.withTieBreaker()
}

// withTieBreaker добавляет `id` по возрастанию, если его ещё нет.
func (o Ordering) withTieBreaker() Ordering {
	for _, t := range o {
		if t.Field == FieldID {
			return o
		}
	}
	return append(o, OrderTerm{Field: FieldID})
}

// String возвращает сортировку в формате query параметра.
func (o Ordering) String() string {
	parts := make([]string, len(o))
	for i, t := range o {
		if t.Desc {
			parts[i] = "-" + t.Field
			continue
		}
		parts[i] = t.Field
	}
	return strings.Join(parts, ",")
}

// SQL возвращает выражение для ORDER BY. Имена полей совпадают с именами колонок и
// проверены в ParseOrdering, поэтому их можно подставлять напрямую.
func (o Ordering) SQL() string {
	parts := make([]string, len(o))
	for i, t := range o {
		dir := "ASC"
		if t.Desc {
			dir = "DESC"
		}
		parts[i] = t.Field + " " + dir
	}
	return strings.Join(parts, ", ")
}

// CompareBookmarks сравнивает две закладки в соответствии с сортировкой.
func (o Ordering) CompareBookmarks(a, b models.Bookmark) int {
	for _, t := range o {
		var c int
		switch t.Field {
		case FieldTitle:
			c = strings.Compare(a.Title, b.Title)
		case FieldDateAdded:
			c = a.DateAdded.Compare(b.DateAdded)
		case FieldID:
			c = cmp.Compare(a.ID, b.ID)
		}
		if t.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// SortBookmarks стабильно сортирует закладки на месте.
func (o Ordering) SortBookmarks(items []models.Bookmark) {
	slices.SortStableFunc(items, o.CompareBookmarks)
}
