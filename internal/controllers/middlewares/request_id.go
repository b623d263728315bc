package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader заголовок с идентификатором запроса.
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey ключ идентификатора запроса в gin.Context.
	RequestIDKey = "request_id"

	maxRequestIDLength = 128
)

// RequestIDMiddleware берет идентификатор запроса из заголовка X-Request-ID или генерирует UUID,
// кладет его в контекст и возвращает в ответе.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestID возвращает идентификатор текущего запроса или пустую строку.
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
