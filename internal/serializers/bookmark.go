// Package serializers переводит тела запросов в изменения закладок и закладки в тела ответов.
package serializers

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/fsdevblog/barky/internal/models"
	"github.com/fsdevblog/barky/internal/services"
)

// Mode режим разбора тела запроса.
type Mode int

const (
	ModeCreate  Mode = iota // POST: все поля обязательны
	ModeReplace             // PUT: все поля обязательны
	ModePartial             // PATCH: проверяются только пришедшие поля
)

// DateTimeLayout формат даты добавления в ответах. Микросекунды и UTC дают строки, которые
// сравниваются так же, как сами даты.
const DateTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// Поля закладки в теле запроса.
const (
	FieldID        = "id"
	FieldTitle     = "title"
	FieldURL       = "url"
	FieldNotes     = "notes"
	FieldDateAdded = "date_added"
)

// inputDateLayouts допустимые форматы date_added. Время без зоны считается UTC.
var inputDateLayouts = []string{ //nolint:gochecknoglobals
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// BookmarkInput провалидированное тело запроса. nil - поле не пришло.
type BookmarkInput struct {
	ID        *int64     `json:"id"         validate:"required,gte=1"`
	Title     *string    `json:"title"      validate:"required,min=1,max=255"`
	URL       *string    `json:"url"        validate:"required,max=200,bookmarkurl"`
	Notes     *string    `json:"notes"      validate:"required"`
	DateAdded *time.Time `json:"date_added"`
}

// goFieldNames имена полей BookmarkInput для частичной валидации.
var goFieldNames = map[string]string{ //nolint:gochecknoglobals
	FieldID:        "ID",
	FieldTitle:     "Title",
	FieldURL:       "URL",
	FieldNotes:     "Notes",
	FieldDateAdded: "DateAdded",
}

// DecodeBookmark разбирает и валидирует тело запроса.
//
// Параметры:
//   - body: тело запроса, пустое тело равно пустому объекту
//   - mode: режим разбора
//
// Возвращает:
//   - *BookmarkInput: провалидированные данные
//   - error: *ParseError для некорректного JSON, *ValidationError для ошибок полей
func DecodeBookmark(body []byte, mode Mode) (*BookmarkInput, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	var (
		input   BookmarkInput
		vErr    ValidationError
		present []string
	)
	for field, val := range obj {
		goName, known := goFieldNames[field]
		if !known {
			continue
		}
		if val == nil {
			vErr.add(field, MsgNull)
			continue
		}
		var msg string
		switch field {
		case FieldID:
			input.ID, msg = asInt(val)
		case FieldTitle:
			input.Title, msg = asString(val)
		case FieldURL:
			input.URL, msg = asString(val)
		case FieldNotes:
			input.Notes, msg = asString(val)
		case FieldDateAdded:
			input.DateAdded, msg = asDateTime(val)
		}
		if msg != "" {
			vErr.add(field, msg)
			continue
		}
		present = append(present, goName)
	}

	var structErr error
	if mode == ModePartial {
		if len(present) > 0 {
			structErr = getValidator().StructPartial(&input, present...)
		}
	} else {
		structErr = getValidator().Struct(&input)
	}
	if structErr != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(structErr, &fieldErrs) {
			return nil, fmt.Errorf("validate bookmark: %w", structErr)
		}
		translate(fieldErrs, &vErr)
	}

	if !vErr.empty() {
		return nil, &vErr
	}
	return &input, nil
}

func decodeObject(body []byte) (map[string]any, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var probe any
	if err := dec.Decode(&probe); err != nil {
		return nil, &ParseError{Err: err}
	}
	if dec.More() {
		return nil, &ParseError{Err: errors.New("extra data after JSON value")}
	}

	obj, ok := probe.(map[string]any)
	if !ok {
		return nil, FieldError(NonFieldErrorsKey, fmt.Sprintf(MsgNotObject, jsonTypeName(probe)))
	}
	return obj, nil
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case []any:
		return "list"
	case string:
		return "str"
	case json.Number:
		return "int"
	case bool:
		return "bool"
	default:
		return "NoneType"
	}
}

func asInt(val any) (*int64, string) {
	var raw string
	switch v := val.(type) {
	case json.Number:
		raw = v.String()
	case string:
		raw = strings.TrimSpace(v)
	default:
		return nil, MsgInvalidInt
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return &n, ""
	}
	// 5.0 - целое число, 5.5 - нет.
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int64(f)) {
		return nil, MsgInvalidInt
	}
	n := int64(f)
	return &n, ""
}

func asString(val any) (*string, string) {
	var s string
	switch v := val.(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	default:
		return nil, MsgInvalidString
	}
	s = strings.TrimSpace(s)
	return &s, ""
}

func asDateTime(val any) (*time.Time, string) {
	s, ok := val.(string)
	if !ok {
		return nil, MsgDatetime
	}
	t, err := ParseDateTime(s)
	if err != nil {
		return nil, MsgDatetime
	}
	return &t, ""
}

// ParseDateTime разбирает дату в формате ISO 8601. Время без зоны считается UTC.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range inputDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported datetime format: %q", s)
}

// Model собирает новую закладку из данных POST запроса.
func (in *BookmarkInput) Model() *models.Bookmark {
	b := &models.Bookmark{}
	if in.ID != nil {
		b.ID = uint(*in.ID) //nolint:gosec
	}
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.URL != nil {
		b.URL = *in.URL
	}
	if in.Notes != nil {
		b.Notes = *in.Notes
	}
	if in.DateAdded != nil {
		b.DateAdded = *in.DateAdded
	}
	return b
}

// Changes изменения для PUT/PATCH. ID из тела не применяется.
func (in *BookmarkInput) Changes() services.BookmarkChanges {
	return services.BookmarkChanges{
		Title:     in.Title,
		URL:       in.URL,
		Notes:     in.Notes,
		DateAdded: in.DateAdded,
	}
}

// BookmarkResponse представление закладки в ответе.
type BookmarkResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Notes     string `json:"notes"`
	DateAdded string `json:"date_added"`
}

// RenderBookmark переводит закладку в представление ответа.
func RenderBookmark(b models.Bookmark) BookmarkResponse {
	return BookmarkResponse{
		ID:        b.ID,
		Title:     b.Title,
		URL:       b.URL,
		Notes:     b.Notes,
		DateAdded: b.DateAdded.UTC().Format(DateTimeLayout),
	}
}

// RenderBookmarks переводит список закладок, пустой список не превращается в null.
func RenderBookmarks(items []models.Bookmark) []BookmarkResponse {
	out := make([]BookmarkResponse, len(items))
	for i, b := range items {
		out[i] = RenderBookmark(b)
	}
	return out
}

// Detail тело ответа с одной ошибкой.
type Detail struct {
	Detail string `json:"detail"`
}
