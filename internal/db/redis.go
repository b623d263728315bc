package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisOptions параметры подключения к Redis.
type RedisOptions struct {
	Addr           string        // Адрес, например localhost:6379
	Password       string        // Пароль, может быть пустым
	DB             int           // Номер базы
	ConnectTimeout time.Duration // Общее время на попытки подключения
	RetryInterval  time.Duration // Начальная пауза между попытками, удваивается
	MaxWait        time.Duration // Максимальная пауза между попытками
	PingTimeout    time.Duration // Таймаут одной попытки
}

// DefaultRedisOptions значения по умолчанию для всего, кроме адреса.
func DefaultRedisOptions(addr string) RedisOptions {
	return RedisOptions{
		Addr:           addr,
		ConnectTimeout: 15 * time.Second, //nolint:mnd
		RetryInterval:  500 * time.Millisecond, //nolint:mnd
		MaxWait:        5 * time.Second, //nolint:mnd
		PingTimeout:    2 * time.Second, //nolint:mnd
	}
}

func (o RedisOptions) validate() error {
	switch {
	case o.Addr == "":
		return errors.New("redis addr is empty")
	case o.ConnectTimeout <= 0, o.RetryInterval <= 0, o.MaxWait <= 0, o.PingTimeout <= 0:
		return fmt.Errorf("redis timeouts must be positive: %+v", o)
	}
	return nil
}

// NewRedis создает клиент Redis и ждет его доступности с экспоненциальной паузой между
// попытками, пока не истечет ConnectTimeout.
//
// Параметры:
//   - ctx: контекст выполнения
//   - opts: параметры подключения
//   - logger: логгер
//
// Возвращает:
//   - *redis.Client: доступный клиент
//   - error: ошибка конфигурации или недоступность Redis
func NewRedis(ctx context.Context, opts RedisOptions, logger *zap.Logger) (*redis.Client, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := waitRedis(ctx, client, opts, logger); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func waitRedis(ctx context.Context, client *redis.Client, opts RedisOptions, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	wait := opts.RetryInterval
	for attempt := 1; ; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, opts.PingTimeout)
		err := client.Ping(pingCtx).Err()
		pingCancel()
		if err == nil {
			logger.Info("connected to redis", zap.String("addr", opts.Addr), zap.Int("attempts", attempt))
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("redis unavailable at %s after %d attempts: %w", opts.Addr, attempt, err)
		case <-timer.C:
			logger.Warn("redis connection failed, retrying",
				zap.String("addr", opts.Addr),
				zap.Int("attempt", attempt),
				zap.Duration("next_retry_in", wait),
				zap.Error(err),
			)
			wait = min(wait*2, opts.MaxWait)
		}
	}
}
