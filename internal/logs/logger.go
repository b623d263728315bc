package logs

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EncodingType формат вывода логов.
type EncodingType string

// LevelType уровень логирования.
type LevelType string

const (
	EncodingTypeConsole EncodingType = "console"
	EncodingTypeJSON    EncodingType = "json"
)

const (
	LevelTypeDebug   LevelType = "debug"
	LevelTypeInfo    LevelType = "info"
	LevelTypeWarning LevelType = "warn"
	LevelTypeError   LevelType = "error"
)

// LoggerOptions настройки логгера.
type LoggerOptions struct {
	Level            LevelType      // Уровень логирования
	Encoding         EncodingType   // Формат вывода
	OutputPaths      []string       // Пути вывода логов
	ErrorOutputPaths []string       // Пути вывода ошибок самого логгера
	InitialFields    map[string]any // Поля, добавляемые в каждую запись
}

// IsProduction включен ли релизный режим (GIN_MODE=release).
func IsProduction() bool {
	return os.Getenv("GIN_MODE") == "release"
}

// New создает логгер. В релизном режиме пишет JSON с уровнем info, иначе консольный вывод
// с уровнем debug. Опции применяются поверх этих значений.
func New(opts ...func(*LoggerOptions)) (*zap.Logger, error) {
	production := IsProduction()

	options := LoggerOptions{
		Level:            LevelTypeDebug,
		Encoding:         EncodingTypeConsole,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if production {
		options.Level = LevelTypeInfo
		options.Encoding = EncodingTypeJSON
	}

	for _, opt := range opts {
		opt(&options)
	}

	lvl, errLvl := zap.ParseAtomicLevel(string(options.Level))
	if errLvl != nil {
		return nil, fmt.Errorf("parse level: %w", errLvl)
	}

	encoderConf := zap.NewProductionEncoderConfig()
	encoderConf.TimeKey = "ts"
	encoderConf.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConf.EncodeDuration = zapcore.StringDurationEncoder
	if !production {
		encoderConf.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	conf := zap.Config{
		Level:            lvl,
		Development:      !production,
		Encoding:         string(options.Encoding),
		EncoderConfig:    encoderConf,
		OutputPaths:      options.OutputPaths,
		ErrorOutputPaths: options.ErrorOutputPaths,
		InitialFields:    options.InitialFields,
	}

	log, err := conf.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

// MustNew как New, но паникует при ошибке.
func MustNew(opts ...func(*LoggerOptions)) *zap.Logger {
	log, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return log
}

// WithLevel задает уровень логирования. Пустое значение оставляет уровень по умолчанию.
func WithLevel(level string) func(*LoggerOptions) {
	return func(o *LoggerOptions) {
		if level != "" {
			o.Level = LevelType(level)
		}
	}
}

// WithInitialFields добавляет поля в каждую запись.
func WithInitialFields(fields map[string]any) func(*LoggerOptions) {
	return func(o *LoggerOptions) {
		o.InitialFields = fields
	}
}
