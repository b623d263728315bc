package models

import "time"

// Ограничения длины полей закладки.
const (
	TitleMaxLength = 255
	URLMaxLength   = 200
)

// Bookmark структура модели хранения закладки.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey"                    json:"id"         yaml:"id"`
	Title     string    `gorm:"size:255;not null"             json:"title"      yaml:"title"`
	URL       string    `gorm:"size:200;not null"             json:"url"        yaml:"url"`
	Notes     string    `gorm:"type:text;not null;default:''" json:"notes"      yaml:"notes"`
	DateAdded time.Time `gorm:"not null;index"                json:"date_added" yaml:"date_added"`
}

// TableName имя таблицы не должно зависеть от правил именования gorm.
func (Bookmark) TableName() string {
	return "bookmarks"
}

// Normalize подставляет текущее время вместо нулевой даты добавления и приводит дату к UTC
// с микросекундной точностью, которую держат все хранилища.
func (b *Bookmark) Normalize() {
	if b.DateAdded.IsZero() {
		b.DateAdded = time.Now()
	}
	b.DateAdded = b.DateAdded.UTC().Truncate(time.Microsecond)
}
