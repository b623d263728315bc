package serializers

import (
	"fmt"
	"sort"
	"strings"
)

// Тексты ошибок валидации полей.
const (
	MsgRequired      = "This field is required."
	MsgNull          = "This field may not be null."
	MsgBlank         = "This field may not be blank."
	MsgMaxLength     = "Ensure this field has no more than %d characters."
	MsgInvalidURL    = "Enter a valid URL."
	MsgInvalidInt    = "A valid integer is required."
	MsgMinValue      = "Ensure this value is greater than or equal to %d."
	MsgInvalidString = "Not a valid string."
	MsgDatetime      = "Datetime has wrong format. Use one of these formats instead: " +
		"YYYY-MM-DDThh:mm[:ss[.uuuuuu]][+HH:MM|-HH:MM|Z]."
	MsgNotObject = "Invalid data. Expected a dictionary, but got %s."
	MsgUnique    = "bookmark with this id already exists."
)

// NonFieldErrorsKey ключ для ошибок, не относящихся к конкретному полю.
const NonFieldErrorsKey = "non_field_errors"

// ValidationError ошибки валидации, сгруппированные по именам полей.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " "))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// add добавляет сообщение, если для поля ещё нет ошибок.
func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = []string{msg}
}

func (e *ValidationError) has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

// FieldError ошибка валидации одного поля.
func FieldError(field, msg string) *ValidationError {
	e := &ValidationError{}
	e.add(field, msg)
	return e
}

// ParseError тело запроса не является корректным JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "JSON parse error - " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
