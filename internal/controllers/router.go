package controllers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fsdevblog/barky/internal/config"
	"github.com/fsdevblog/barky/internal/controllers/middlewares"
)

const (
	apiPrefix      = "/api"
	bookmarksPath  = apiPrefix + "/bookmarks/"
	bookmarkIDPath = bookmarksPath + ":id/"
)

type RouterParams struct {
	BookmarkService BookmarkStore
	PingService     ConnectionChecker
	AppConf         config.Config
	Logger          *zap.Logger
}

// SetupRouter собирает таблицу маршрутов.
//
//	GET    /ping
//	GET    /api/
//	GET    /api/bookmarks/
//	POST   /api/bookmarks/
//	GET    /api/bookmarks/:id/
//	PUT    /api/bookmarks/:id/
//	PATCH  /api/bookmarks/:id/
//	DELETE /api/bookmarks/:id/
func SetupRouter(params RouterParams) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestIDMiddleware())
	r.Use(middlewares.LoggerMiddleware(params.Logger))
	r.Use(middlewares.GzipMiddleware())

	r.NoRoute(NotFound)
	r.NoMethod(MethodNotAllowed)

	baseURL := params.AppConf.BaseURLParsed()
	pageSize := params.AppConf.PageSize
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}

	pingController := NewPingController(params.PingService)
	r.GET("/ping", pingController.Ping)

	rootController := NewAPIRootController(baseURL, map[string]string{
		"bookmarks": bookmarksPath,
	})
	bookmarksController := NewBookmarksController(params.BookmarkService, baseURL, pageSize)

	r.GET(apiPrefix+"/", rootController.Index)

	r.GET(bookmarksPath, bookmarksController.List)
	r.POST(bookmarksPath, bookmarksController.Create)
	r.GET(bookmarkIDPath, bookmarksController.Retrieve)
	r.PUT(bookmarkIDPath, bookmarksController.Update)
	r.PATCH(bookmarkIDPath, bookmarksController.PartialUpdate)
	r.DELETE(bookmarkIDPath, bookmarksController.Destroy)

	return r
}
