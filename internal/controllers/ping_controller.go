package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/barky/internal/services"
)

// PingController проверка живости сервиса и его хранилища.
type PingController struct {
	conn ConnectionChecker
}

func NewPingController(conn ConnectionChecker) *PingController {
	return &PingController{conn: conn}
}

// Ping GET /ping.
//
// Ответы:
//   - 200 "pong" - хранилище доступно
//   - 503 {"detail": ...} - хранилище не ответило
//   - 500 {"detail": "A server error occurred."} - прочие ошибки
func (c *PingController) Ping(ctx *gin.Context) {
	pingCtx, cancel := requestContext(ctx)
	defer cancel()

	err := c.conn.CheckConnection(pingCtx)
	switch {
	case err == nil:
		ctx.String(http.StatusOK, "pong")
	case errors.Is(err, services.ErrStorageUnavailable):
		_ = ctx.Error(err)
		abortDetail(ctx, http.StatusServiceUnavailable, detailServiceUnavailable)
	default:
		serverError(ctx, fmt.Errorf("ping: %w", err))
	}
}
