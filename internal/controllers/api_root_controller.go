package controllers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// APIRootController отдает ссылки на ресурсы API.
type APIRootController struct {
	baseURL   *url.URL
	resources map[string]string // имя ресурса -> путь
}

func NewAPIRootController(baseURL *url.URL, resources map[string]string) *APIRootController {
	return &APIRootController{baseURL: baseURL, resources: resources}
}

// Index обрабатывает GET /api/.
func (c *APIRootController) Index(ctx *gin.Context) {
	links := make(map[string]string, len(c.resources))
	for name, path := range c.resources {
		links[name] = absoluteURL(ctx.Request, c.baseURL, path, "").String()
	}
	ctx.JSON(http.StatusOK, links)
}
