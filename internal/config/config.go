package config

import (
	"flag"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/fsdevblog/barky/internal/tlscert"
)

// Значения по умолчанию.
const (
	DefaultServerAddress = "localhost:8080"
	DefaultPageSize      = 10
	MaxPageSize          = 1000
	DefaultCacheTTL      = 5 * time.Minute
	DefaultTLSCertPath   = tlscert.DefaultCertPath
	DefaultTLSKeyPath    = tlscert.DefaultKeyPath
	DefaultDotEnvPath    = ".env"
)

type Config struct {
	// Адрес, на котором запустится сервер
	ServerAddress string `env:"SERVER_ADDRESS"`
	// Базовый адрес для абсолютных ссылок в ответах (по умолчанию Scheme://Host запроса)
	BaseURL string `env:"BASE_URL"`
	// Строка подключения к PostgreSQL
	DatabaseDSN string `env:"DATABASE_DSN"`
	// Путь к файлу sqlite
	SQLitePath string `env:"SQLITE_PATH"`
	// Файл фикстур: загружается при старте, сохраняется при остановке
	FixturePath string `env:"FIXTURE_PATH"`
	// Размер страницы списка
	PageSize int `env:"PAGE_SIZE"`
	// Уровень логирования
	LogLevel string `env:"LOG_LEVEL"`
	// Адрес Redis для кеша
	RedisAddr string `env:"REDIS_ADDR"`
	// Время жизни записи кеша
	CacheTTL time.Duration `env:"CACHE_TTL"`
	// Запуск сервера по https
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`
	TLSCertPath string `env:"TLS_CERT_PATH"`
	TLSKeyPath  string `env:"TLS_KEY_PATH"`
}

// StorageType тип основного хранилища по заданным параметрам подключения.
type StorageType string

const (
	StoragePostgres StorageType = "postgres"
	StorageSQLite   StorageType = "sqlite"
	StorageInMemory StorageType = "inMemory"
)

// Storage выбирает хранилище: DATABASE_DSN важнее SQLITE_PATH, без них - память.
func (c Config) Storage() StorageType {
	switch {
	case c.DatabaseDSN != "":
		return StoragePostgres
	case c.SQLitePath != "":
		return StorageSQLite
	default:
		return StorageInMemory
	}
}

// LoadConfig читает .env (если есть), флаги командной строки и переменные окружения.
// Переменные окружения важнее флагов.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(DefaultDotEnvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(err, "load %s", DefaultDotEnvPath)
	}
	return Load(os.Args[1:], nil)
}

// Load собирает конфигурацию из аргументов и окружения.
//
// Параметры:
//   - args: аргументы командной строки без имени программы
//   - environ: переменные окружения, nil - окружение процесса
//
// Возвращает:
//   - *Config: проверенная конфигурация
//   - error: ошибка разбора или проверки
func Load(args []string, environ map[string]string) (*Config, error) {
	conf := defaultConfig()

	if err := parseFlags(conf, args); err != nil {
		return nil, errors.Wrap(err, "parse flags error")
	}

	if err := env.ParseWithOptions(conf, env.Options{Environment: environ}); err != nil {
		return nil, errors.Wrapf(err, "parse ENV config error")
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func defaultConfig() *Config {
	return &Config{
		ServerAddress: DefaultServerAddress,
		PageSize:      DefaultPageSize,
		CacheTTL:      DefaultCacheTTL,
		TLSCertPath:   DefaultTLSCertPath,
		TLSKeyPath:    DefaultTLSKeyPath,
	}
}

// parseFlags парсит флаги командной строки поверх значений по умолчанию.
func parseFlags(conf *Config, args []string) error {
	fs := flag.NewFlagSet("barky", flag.ContinueOnError)

	fs.StringVar(&conf.ServerAddress, "a", conf.ServerAddress, "Адрес сервера")
	fs.StringVar(&conf.BaseURL, "b", conf.BaseURL,
		"Базовый адрес для ссылок в ответах (по умолчанию Scheme://Host запроса)")
	fs.StringVar(&conf.DatabaseDSN, "d", conf.DatabaseDSN, "Строка подключения к PostgreSQL")
	fs.StringVar(&conf.SQLitePath, "s", conf.SQLitePath, "Путь к файлу sqlite")
	fs.StringVar(&conf.FixturePath, "f", conf.FixturePath, "Файл фикстур (.json, .yaml)")
	fs.IntVar(&conf.PageSize, "page-size", conf.PageSize, "Размер страницы списка")
	fs.StringVar(&conf.LogLevel, "log-level", conf.LogLevel, "Уровень логирования")
	fs.StringVar(&conf.RedisAddr, "redis", conf.RedisAddr, "Адрес Redis для кеша")
	fs.BoolVar(&conf.EnableHTTPS, "tls", conf.EnableHTTPS, "Запуск по https с самоподписанным сертификатом")

	return fs.Parse(args) //nolint:wrapcheck
}

// Validate проверяет значения конфигурации.
func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return errors.New("server address is empty")
	}
	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		return errors.Errorf("page size must be in range 1..%d, got %d", MaxPageSize, c.PageSize)
	}
	if c.CacheTTL <= 0 {
		return errors.Errorf("cache ttl must be positive, got %s", c.CacheTTL)
	}
	if c.BaseURL != "" {
		parsed, err := url.ParseRequestURI(c.BaseURL)
		if err != nil {
			return errors.Wrap(err, "failed to parse base url")
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
			return errors.Errorf("base url must be absolute http(s) url, got %q", c.BaseURL)
		}
	}
	if c.EnableHTTPS && (c.TLSCertPath == "" || c.TLSKeyPath == "") {
		return errors.New("tls cert and key paths are required for https")
	}
	return nil
}

// BaseURLParsed базовый адрес без пути и параметров или nil, если он не задан.
func (c *Config) BaseURLParsed() *url.URL {
	if c.BaseURL == "" {
		return nil
	}
	parsed, err := url.ParseRequestURI(c.BaseURL)
	if err != nil {
		return nil
	}
	// Path и Query из базового адреса отбрасываются.
	return &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
}
