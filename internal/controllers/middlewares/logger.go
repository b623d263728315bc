package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerMiddleware пишет одну строку лога на запрос. Ставится после RequestIDMiddleware,
// чтобы в запись попал идентификатор запроса.
//
// Уровень записи зависит от статуса ответа: 5xx - Error, 4xx - Warn, остальное - Info.
// Внутренние ошибки обработчиков (ctx.Error) выводятся в поле error.
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := zapcore.InfoLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zapcore.WarnLevel
		}
		ce := logger.Check(level, "request")
		if ce == nil {
			return
		}

		fields := []zap.Field{
			zap.String("request_id", RequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("uri", c.Request.RequestURI),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.Int("size", c.Writer.Size()),
			zap.String("client_ip", c.ClientIP()),
		}
		if ct := c.Request.Header.Get("Content-Type"); ct != "" {
			fields = append(fields, zap.String("content_type", ct))
		}
		if msg := c.Errors.ByType(gin.ErrorTypePrivate).String(); msg != "" {
			fields = append(fields, zap.String("error", msg))
		}
		ce.Write(fields...)
	}
}
