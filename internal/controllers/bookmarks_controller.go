package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/barky/internal/query"
	"github.com/fsdevblog/barky/internal/serializers"
	"github.com/fsdevblog/barky/internal/services"
)

// BookmarksController обрабатывает запросы к коллекции закладок и к отдельной закладке.
type BookmarksController struct {
	store    BookmarkStore
	baseURL  *url.URL
	pageSize int
}

// NewBookmarksController создает новый экземпляр BookmarksController.
//
// Параметры:
//   - store: сервис закладок
//   - baseURL: базовый адрес для ссылок пагинации, nil - адрес запроса
//   - pageSize: размер страницы списка
//
// Возвращает:
//   - *BookmarksController: новый экземпляр контроллера
func NewBookmarksController(store BookmarkStore, baseURL *url.URL, pageSize int) *BookmarksController {
	return &BookmarksController{
		store:    store,
		baseURL:  baseURL,
		pageSize: pageSize,
	}
}

// List обрабатывает GET /api/bookmarks/.
//
// Поддерживает параметры `ordering` (title, date_added, id, `-` для обратного порядка)
// и `page` (номер или `last`).
//
// Ответы:
//   - 200 OK: {"count", "next", "previous", "results"}
//   - 404 Not Found: {"detail": "Invalid page."}
func (c *BookmarksController) List(ctx *gin.Context) {
	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	res, err := c.store.List(reqCtx, services.ListQuery{
		Ordering: query.ParseOrdering(ctx.Query(query.OrderingParam), query.BookmarkOrderingFields...),
		Page:     ctx.Query(query.PageParam),
		PageSize: c.pageSize,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidPage) {
			abortDetail(ctx, http.StatusNotFound, detailInvalidPage)
			return
		}
		serverError(ctx, fmt.Errorf("list bookmarks: %w", err))
		return
	}

	current := absoluteURL(ctx.Request, c.baseURL, ctx.Request.URL.Path, ctx.Request.URL.RawQuery)
	ctx.JSON(http.StatusOK, query.NewEnvelope(res.Page, current, serializers.RenderBookmarks(res.Items)))
}

// Retrieve обрабатывает GET /api/bookmarks/:id/.
//
// Ответы:
//   - 200 OK: закладка
//   - 404 Not Found: {"detail": "Not found."}
func (c *BookmarksController) Retrieve(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		notFound(ctx)
		return
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	b, err := c.store.Get(reqCtx, id)
	if err != nil {
		c.handleLookupError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, serializers.RenderBookmark(*b))
}

// Create обрабатывает POST /api/bookmarks/.
//
// Ответы:
//   - 201 Created: созданная закладка
//   - 400 Bad Request: ошибки полей, занятый id или некорректный JSON
//   - 415 Unsupported Media Type: тело не JSON
func (c *BookmarksController) Create(ctx *gin.Context) {
	input, ok := c.decode(ctx, serializers.ModeCreate)
	if !ok {
		return
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	b, err := c.store.Create(reqCtx, input.Model())
	if err != nil {
		if errors.Is(err, services.ErrDuplicateKey) {
			ctx.AbortWithStatusJSON(http.StatusBadRequest,
				serializers.FieldError(serializers.FieldID, serializers.MsgUnique).Fields)
			return
		}
		serverError(ctx, fmt.Errorf("create bookmark: %w", err))
		return
	}
	ctx.JSON(http.StatusCreated, serializers.RenderBookmark(*b))
}

// Update обрабатывает PUT /api/bookmarks/:id/. Требует все поля, id из тела не применяется.
func (c *BookmarksController) Update(ctx *gin.Context) {
	c.update(ctx, serializers.ModeReplace)
}

// PartialUpdate обрабатывает PATCH /api/bookmarks/:id/. Применяет только пришедшие поля.
func (c *BookmarksController) PartialUpdate(ctx *gin.Context) {
	c.update(ctx, serializers.ModePartial)
}

func (c *BookmarksController) update(ctx *gin.Context, mode serializers.Mode) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		notFound(ctx)
		return
	}
	input, ok := c.decode(ctx, mode)
	if !ok {
		return
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	b, err := c.store.Update(reqCtx, id, input.Changes())
	if err != nil {
		c.handleLookupError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, serializers.RenderBookmark(*b))
}

// Destroy обрабатывает DELETE /api/bookmarks/:id/.
//
// Ответы:
//   - 204 No Content
//   - 404 Not Found: {"detail": "Not found."}
func (c *BookmarksController) Destroy(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		notFound(ctx)
		return
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	if err := c.store.Delete(reqCtx, id); err != nil {
		c.handleLookupError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *BookmarksController) handleLookupError(ctx *gin.Context, err error) {
	if errors.Is(err, services.ErrRecordNotFound) {
		notFound(ctx)
		return
	}
	serverError(ctx, err)
}

// decode читает и валидирует тело запроса. При ошибке ответ уже отправлен.
func (c *BookmarksController) decode(ctx *gin.Context, mode serializers.Mode) (*serializers.BookmarkInput, bool) {
	if ct := ctx.ContentType(); ct != "" && !isJSONRequest(ctx) {
		abortDetail(ctx, http.StatusUnsupportedMediaType, fmt.Sprintf(detailUnsupportedMedia, ct))
		return nil, false
	}

	body, readErr := io.ReadAll(ctx.Request.Body)
	if readErr != nil {
		serverError(ctx, fmt.Errorf("read body: %w", readErr))
		return nil, false
	}

	input, err := serializers.DecodeBookmark(body, mode)
	if err != nil {
		var (
			parseErr *serializers.ParseError
			vErr     *serializers.ValidationError
		)
		switch {
		case errors.As(err, &parseErr):
			abortDetail(ctx, http.StatusBadRequest, parseErr.Error())
		case errors.As(err, &vErr):
			ctx.AbortWithStatusJSON(http.StatusBadRequest, vErr.Fields)
		default:
			serverError(ctx, err)
		}
		return nil, false
	}
	return input, true
}
