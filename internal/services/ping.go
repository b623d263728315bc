package services

import (
	"context"
	"fmt"
	"time"
)

// DefaultPingTimeout ограничение на проверку хранилища, если у ctx нет дедлайна.
const DefaultPingTimeout = 2 * time.Second

// Pinger хранилище, умеющее проверить соединение.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingService проверяет доступность основного хранилища.
type PingService struct {
	conn    Pinger
	timeout time.Duration
}

func NewPingService(conn Pinger) *PingService {
	return &PingService{conn: conn, timeout: DefaultPingTimeout}
}

// CheckConnection возвращает ErrStorageUnavailable, если хранилище не ответило.
func (s *PingService) CheckConnection(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := s.conn.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %s", ErrStorageUnavailable, err.Error())
	}
	return nil
}
