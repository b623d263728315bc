package controllers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/barky/internal/serializers"
)

const (
	DefaultRequestTimeout = 3 * time.Second
)

// isJSONRequest Определяет тип запроса (json или нет) по заголовку Content-Type.
func isJSONRequest(ctx *gin.Context) bool {
	ct := ctx.Request.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/json")
}

// requestContext контекст запроса с таймаутом DefaultRequestTimeout.
func requestContext(ctx *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request.Context(), DefaultRequestTimeout)
}

// parseID разбирает идентификатор из пути. Допустимы только положительные целые.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 || id > uint64(^uint(0)>>1) {
		return 0, false
	}
	return uint(id), true
}

// absoluteURL строит абсолютный адрес для path и query. Без базового адреса берется
// Scheme://Host текущего запроса.
func absoluteURL(r *http.Request, baseURL *url.URL, path string, rawQuery string) *url.URL {
	u := &url.URL{Path: path, RawQuery: rawQuery}
	if baseURL != nil {
		u.Scheme = baseURL.Scheme
		u.Host = baseURL.Host
		return u
	}
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	u.Host = r.Host
	return u
}

func abortDetail(ctx *gin.Context, status int, detail string) {
	ctx.AbortWithStatusJSON(status, serializers.Detail{Detail: detail})
}

func notFound(ctx *gin.Context) {
	abortDetail(ctx, http.StatusNotFound, detailNotFound)
}

// serverError логирует причину через ctx.Errors и отдает клиенту общий ответ.
func serverError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	abortDetail(ctx, http.StatusInternalServerError, detailServerError)
}

// MethodNotAllowed ответ на неподдерживаемый метод для известного пути.
func MethodNotAllowed(ctx *gin.Context) {
	abortDetail(ctx, http.StatusMethodNotAllowed, fmt.Sprintf(detailMethodNotAllowed, ctx.Request.Method))
}

// NotFound ответ на неизвестный путь.
func NotFound(ctx *gin.Context) {
	notFound(ctx)
}
