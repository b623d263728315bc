package buildinfo

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

const notAvailable = "N/A"

// Info метаданные сборки, передаются через -ldflags.
type Info struct {
	Version string
	Date    string
	Commit  string
}

// New заполняет пустые значения строкой N/A.
func New(version, date, commit string) Info {
	return Info{
		Version: orNA(version),
		Date:    orNA(date),
		Commit:  orNA(commit),
	}
}

func orNA(v string) string {
	if v == "" {
		return notAvailable
	}
	return v
}

// Fprint печатает метаданные сборки в w.
func (i Info) Fprint(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Build version: %s\nBuild date: %s\nBuild commit: %s\n",
		i.Version, i.Date, i.Commit)
	if err != nil {
		return fmt.Errorf("print build info: %w", err)
	}
	return nil
}

// Fields поля для структурированного лога.
func (i Info) Fields() []zap.Field {
	return []zap.Field{
		zap.String("version", i.Version),
		zap.String("build_date", i.Date),
		zap.String("commit", i.Commit),
	}
}
