package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fsdevblog/barky/internal/config"
	"github.com/fsdevblog/barky/internal/db"
	"github.com/fsdevblog/barky/internal/models"
	"github.com/fsdevblog/barky/internal/repositories/sql"
	"github.com/fsdevblog/barky/internal/services"
)

const (
	listURL   = "/api/bookmarks/"
	detailURL = "/api/bookmarks/1/"
)

// BookmarkAPISuite проверяет HTTP контракт целиком: роутер, сервис и sqlite в памяти.
type BookmarkAPISuite struct {
	suite.Suite
	conn    *gorm.DB
	service *services.BookmarkService
	router  *gin.Engine
	seeded  *models.Bookmark
}

func TestBookmarkAPISuite(t *testing.T) {
	suite.Run(t, new(BookmarkAPISuite))
}

func (s *BookmarkAPISuite) SetupTest() {
	conn, err := db.NewSQLite(s.T().Context(), ":memory:", nil, zap.NewNop())
	s.Require().NoError(err)
	s.conn = conn
	s.service = services.NewBookmarkService(sql.NewBookmarkRepo(conn))
	s.router = SetupRouter(RouterParams{
		BookmarkService: s.service,
		PingService:     services.NewPingService(&db.Connection{StorageType: db.StorageTypeSQLite, Gorm: conn}),
		AppConf:         config.Config{PageSize: config.DefaultPageSize},
		Logger:          zap.NewNop(),
	})

	s.seeded, err = s.service.Create(s.T().Context(), &models.Bookmark{
		ID:    1,
		Title: "Awesome Django",
		URL:   "https://awesomedjango.org/",
		Notes: "Best place on the web for Django.",
	})
	s.Require().NoError(err)
}

func (s *BookmarkAPISuite) TearDownTest() {
	sqlDB, err := s.conn.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())
}

type listResponse struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []struct {
		ID        uint   `json:"id"`
		Title     string `json:"title"`
		DateAdded string `json:"date_added"`
	} `json:"results"`
}

func (s *BookmarkAPISuite) request(method, url, body string) (int, []byte) {
	f := requestFields{Method: method, URL: url}
	if body != "" {
		f.Body = strings.NewReader(body)
		f.ContentType = "application/json"
	}
	res := makeRequest(s.router, f)
	defer res.Body.Close()
	raw, err := readBody(res.Body, false)
	s.Require().NoError(err)
	return res.StatusCode, raw
}

func (s *BookmarkAPISuite) count() int64 {
	var total int64
	s.Require().NoError(s.conn.Model(&models.Bookmark{}).Count(&total).Error)
	return total
}

func (s *BookmarkAPISuite) list(url string) listResponse {
	status, raw := s.request(http.MethodGet, url, "")
	s.Require().Equal(http.StatusOK, status, string(raw))
	var out listResponse
	s.Require().NoError(json.Unmarshal(raw, &out))
	return out
}

func (s *BookmarkAPISuite) TestCreateBookmark() {
	status, raw := s.request(http.MethodPost, listURL, `{
		"id": 99,
		"title": "Django REST framework",
		"url": "https://www.django-rest-framework.org/",
		"notes": "Best place on the web for Django REST framework."
	}`)
	s.Equal(http.StatusCreated, status, string(raw))
	s.Equal(int64(2), s.count())

	b, err := s.service.Get(s.T().Context(), 99)
	s.Require().NoError(err)
	s.Equal("Django REST framework", b.Title)
}

func (s *BookmarkAPISuite) TestCreateDuplicate() {
	status, raw := s.request(http.MethodPost, listURL,
		`{"id":1,"title":"t","url":"https://example.com/","notes":""}`)
	s.Equal(http.StatusBadRequest, status)
	s.JSONEq(`{"id":["bookmark with this id already exists."]}`, string(raw))
	s.Equal(int64(1), s.count())
}

func (s *BookmarkAPISuite) TestListBookmarks() {
	out := s.list(listURL)
	s.Require().NotEmpty(out.Results)
	s.Equal(s.seeded.Title, out.Results[0].Title)
	s.Equal(int64(1), out.Count)
	s.Nil(out.Next)
	s.Nil(out.Previous)
}

func (s *BookmarkAPISuite) TestRetrieveBookmark() {
	status, raw := s.request(http.MethodGet, detailURL, "")
	s.Equal(http.StatusOK, status)

	var out map[string]any
	s.Require().NoError(json.Unmarshal(raw, &out))
	s.Equal(s.seeded.Title, out["title"])
}

func (s *BookmarkAPISuite) TestDeleteBookmark() {
	status, raw := s.request(http.MethodDelete, detailURL, "")
	s.Equal(http.StatusNoContent, status)
	s.Empty(raw)
	s.Zero(s.count())

	status, _ = s.request(http.MethodGet, detailURL, "")
	s.Equal(http.StatusNotFound, status)
}

func (s *BookmarkAPISuite) TestUpdateBookmark() {
	status, raw := s.request(http.MethodPut, detailURL, `{
		"id": 99,
		"title": "Awesomer Django",
		"url": "https://awesomedjango.org/",
		"notes": "Best place on the web for Django just got better."
	}`)
	s.Require().Equal(http.StatusOK, status, string(raw))

	var out map[string]any
	s.Require().NoError(json.Unmarshal(raw, &out))
	s.Equal("Awesomer Django", out["title"])
	s.InDelta(1, out["id"], 0)

	b, err := s.service.Get(s.T().Context(), 1)
	s.Require().NoError(err)
	s.Equal("Awesomer Django", b.Title)
	s.True(s.seeded.DateAdded.Equal(b.DateAdded))
}

func (s *BookmarkAPISuite) TestPartialUpdateBookmark() {
	status, raw := s.request(http.MethodPatch, detailURL, `{"notes":""}`)
	s.Require().Equal(http.StatusOK, status, string(raw))

	b, err := s.service.Get(s.T().Context(), 1)
	s.Require().NoError(err)
	s.Empty(b.Notes)
	s.Equal(s.seeded.Title, b.Title)
}

func (s *BookmarkAPISuite) TestListBookmarksByTitle() {
	for _, b := range []models.Bookmark{
		{Title: "Github", URL: "https://github.com/"},
		{Title: "Google", URL: "https://google.com/"},
	} {
		_, err := s.service.Create(s.T().Context(), &b)
		s.Require().NoError(err)
	}

	out := s.list(listURL + "?ordering=title")
	s.Require().Len(out.Results, 3)
	s.Equal("Awesome Django", out.Results[0].Title)
	s.Equal("Github", out.Results[1].Title)
	s.Equal("Google", out.Results[2].Title)
}

func (s *BookmarkAPISuite) TestListBookmarksByDate() {
	now := time.Now()
	for _, b := range []models.Bookmark{
		{Title: "Github", URL: "https://github.com/", DateAdded: now.Add(-48 * time.Hour)},
		{Title: "Google", URL: "https://google.com/", DateAdded: now.Add(-24 * time.Hour)},
	} {
		_, err := s.service.Create(s.T().Context(), &b)
		s.Require().NoError(err)
	}

	out := s.list(listURL + "?ordering=date_added")
	s.Require().Len(out.Results, 3)
	s.LessOrEqual(out.Results[0].DateAdded, out.Results[1].DateAdded)
	s.LessOrEqual(out.Results[1].DateAdded, out.Results[2].DateAdded)
	s.Equal("Github", out.Results[0].Title)

	desc := s.list(listURL + "?ordering=-date_added")
	s.Equal("Awesome Django", desc.Results[0].Title)
}

func (s *BookmarkAPISuite) TestBookmarksURL() {
	status, _ := s.request(http.MethodGet, listURL, "")
	s.Equal(http.StatusOK, status)
}

func (s *BookmarkAPISuite) TestPagination() {
	for i := range 11 {
		_, err := s.service.Create(s.T().Context(), &models.Bookmark{
			Title: "bookmark " + string(rune('a'+i)),
			URL:   "https://example.com/",
		})
		s.Require().NoError(err)
	}

	first := s.list(listURL)
	s.Equal(int64(12), first.Count)
	s.Len(first.Results, config.DefaultPageSize)
	s.Require().NotNil(first.Next)
	s.Equal("http://example.com/api/bookmarks/?page=2", *first.Next)

	last := s.list(listURL + "?page=last")
	s.Len(last.Results, 2)
	s.Nil(last.Next)
	s.Require().NotNil(last.Previous)
	s.Equal("http://example.com/api/bookmarks/", *last.Previous)

	status, raw := s.request(http.MethodGet, listURL+"?page=3", "")
	s.Equal(http.StatusNotFound, status)
	s.JSONEq(`{"detail":"Invalid page."}`, string(raw))
}

func (s *BookmarkAPISuite) TestPing() {
	status, raw := s.request(http.MethodGet, "/ping", "")
	s.Equal(http.StatusOK, status)
	s.Equal("pong", string(raw))
}
