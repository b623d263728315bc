package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/fsdevblog/barky/internal/config"
	"github.com/fsdevblog/barky/internal/controllers/mocksctrl"
	"github.com/fsdevblog/barky/internal/models"
	"github.com/fsdevblog/barky/internal/query"
	"github.com/fsdevblog/barky/internal/services"
)

type BookmarksControllerSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	store  *mocksctrl.MockBookmarkStore
	ping   *mocksctrl.MockConnectionChecker
	router *gin.Engine
}

func TestBookmarksControllerSuite(t *testing.T) {
	suite.Run(t, new(BookmarksControllerSuite))
}

func (s *BookmarksControllerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocksctrl.NewMockBookmarkStore(s.ctrl)
	s.ping = mocksctrl.NewMockConnectionChecker(s.ctrl)
	s.router = SetupRouter(RouterParams{
		BookmarkService: s.store,
		PingService:     s.ping,
		AppConf: config.Config{
			BaseURL:  "http://test.com:8080",
			PageSize: 2,
		},
		Logger: zap.NewNop(),
	})
}

func (s *BookmarksControllerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func bookmark(id uint, title string) models.Bookmark {
	return models.Bookmark{
		ID:        id,
		Title:     title,
		URL:       "https://example.com/" + title,
		Notes:     "",
		DateAdded: time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC),
	}
}

func (s *BookmarksControllerSuite) do(f requestFields) (int, map[string]any) {
	res := s.makeRaw(f)
	defer res.Body.Close()
	body, err := readBody(res.Body, f.Gzipped && res.Header.Get("Content-Encoding") == "gzip")
	s.Require().NoError(err)

	var out map[string]any
	if len(body) > 0 {
		s.Require().NoError(json.Unmarshal(body, &out), string(body))
	}
	return res.StatusCode, out
}

func (s *BookmarksControllerSuite) makeRaw(f requestFields) *http.Response {
	return makeRequest(s.router, f)
}

func (s *BookmarksControllerSuite) TestList() {
	ordering := query.ParseOrdering("-title", query.BookmarkOrderingFields...)
	s.store.EXPECT().
		List(gomock.Any(), services.ListQuery{Ordering: ordering, Page: "2", PageSize: 2}).
		Return(&services.ListResult{
			Page:  query.Page{Number: 2, Size: 2, Total: 5},
			Items: []models.Bookmark{bookmark(3, "c"), bookmark(4, "d")},
		}, nil)

	status, body := s.do(requestFields{Method: http.MethodGet, URL: "/api/bookmarks/?ordering=-title&page=2"})
	s.Equal(http.StatusOK, status)
	s.InDelta(5, body["count"], 0)
	s.Equal("http://test.com:8080/api/bookmarks/?ordering=-title&page=3", body["next"])
	s.Equal("http://test.com:8080/api/bookmarks/?ordering=-title", body["previous"])

	results, ok := body["results"].([]any)
	s.Require().True(ok)
	s.Require().Len(results, 2)
	first, _ := results[0].(map[string]any)
	s.Equal("c", first["title"])
	s.Equal("2024-01-02T15:04:05.000000Z", first["date_added"])
}

func (s *BookmarksControllerSuite) TestListEmpty() {
	s.store.EXPECT().List(gomock.Any(), gomock.Any()).
		Return(&services.ListResult{Page: query.Page{Number: 1, Size: 2}}, nil)

	status, body := s.do(requestFields{Method: http.MethodGet, URL: "/api/bookmarks/"})
	s.Equal(http.StatusOK, status)
	s.Nil(body["next"])
	s.Nil(body["previous"])
	s.Equal([]any{}, body["results"])
}

func (s *BookmarksControllerSuite) TestListInvalidPage() {
	s.store.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, services.ErrInvalidPage)

	status, body := s.do(requestFields{Method: http.MethodGet, URL: "/api/bookmarks/?page=9"})
	s.Equal(http.StatusNotFound, status)
	s.Equal("Invalid page.", body["detail"])
}

func (s *BookmarksControllerSuite) TestListServerError() {
	s.store.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, services.ErrUnknown)

	status, body := s.do(requestFields{Method: http.MethodGet, URL: "/api/bookmarks/"})
	s.Equal(http.StatusInternalServerError, status)
	s.Equal("A server error occurred.", body["detail"])
}

func (s *BookmarksControllerSuite) TestRetrieve() {
	b := bookmark(1, "Google")
	s.store.EXPECT().Get(gomock.Any(), uint(1)).Return(&b, nil)
	s.store.EXPECT().Get(gomock.Any(), uint(2)).Return(nil, services.ErrRecordNotFound)

	tests := []struct {
		name       string
		url        string
		wantStatus int
	}{
		{name: "existing", url: "/api/bookmarks/1/", wantStatus: http.StatusOK},
		{name: "missing", url: "/api/bookmarks/2/", wantStatus: http.StatusNotFound},
		{name: "not a number", url: "/api/bookmarks/abc/", wantStatus: http.StatusNotFound},
		{name: "zero", url: "/api/bookmarks/0/", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			status, body := s.do(requestFields{Method: http.MethodGet, URL: tt.url})
			s.Equal(tt.wantStatus, status)
			if tt.wantStatus == http.StatusOK {
				s.Equal("Google", body["title"])
			} else {
				s.Equal("Not found.", body["detail"])
			}
		})
	}
}

func (s *BookmarksControllerSuite) TestCreate() {
	payload := `{"id":99,"title":"Awesome Django","url":"https://awesomedjango.org/","notes":"Best place on the web for Django."}`
	s.store.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, b *models.Bookmark) (*models.Bookmark, error) {
			s.Equal(uint(99), b.ID)
			s.Equal("Awesome Django", b.Title)
			b.DateAdded = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			return b, nil
		},
	).Times(2)

	for _, gzipped := range []bool{false, true} {
		status, body := s.do(requestFields{
			Method:      http.MethodPost,
			URL:         "/api/bookmarks/",
			Body:        strings.NewReader(payload),
			ContentType: "application/json",
			Gzipped:     gzipped,
		})
		s.Equal(http.StatusCreated, status)
		s.InDelta(99, body["id"], 0)
		s.Equal("Best place on the web for Django.", body["notes"])
	}
}

func (s *BookmarksControllerSuite) TestCreateErrors() {
	s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, services.ErrDuplicateKey)

	tests := []struct {
		name        string
		body        string
		contentType string
		wantStatus  int
		wantBody    map[string]any
	}{
		{
			name:        "duplicate id",
			body:        `{"id":1,"title":"t","url":"https://a.example","notes":""}`,
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
			wantBody:    map[string]any{"id": []any{"bookmark with this id already exists."}},
		},
		{
			name:        "missing fields",
			body:        `{"title":"t"}`,
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
			wantBody: map[string]any{
				"id":    []any{"This field is required."},
				"url":   []any{"This field is required."},
				"notes": []any{"This field is required."},
			},
		},
		{
			name:        "plain text",
			body:        `hello`,
			contentType: "text/plain",
			wantStatus:  http.StatusUnsupportedMediaType,
			wantBody:    map[string]any{"detail": `Unsupported media type "text/plain" in request.`},
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			status, body := s.do(requestFields{
				Method:      http.MethodPost,
				URL:         "/api/bookmarks/",
				Body:        strings.NewReader(tt.body),
				ContentType: tt.contentType,
			})
			s.Equal(tt.wantStatus, status)
			s.Equal(tt.wantBody, body)
		})
	}

	status, body := s.do(requestFields{
		Method:      http.MethodPost,
		URL:         "/api/bookmarks/",
		Body:        strings.NewReader(`{"id":`),
		ContentType: "application/json",
	})
	s.Equal(http.StatusBadRequest, status)
	s.Contains(body["detail"], "JSON parse error")
}

func (s *BookmarksControllerSuite) TestUpdate() {
	title, url, notes := "Github", "https://github.com/", ""
	updated := bookmark(1, title)
	s.store.EXPECT().
		Update(gomock.Any(), uint(1), services.BookmarkChanges{Title: &title, URL: &url, Notes: &notes}).
		Return(&updated, nil)

	status, body := s.do(requestFields{
		Method:      http.MethodPut,
		URL:         "/api/bookmarks/1/",
		Body:        strings.NewReader(`{"id":99,"title":"Github","url":"https://github.com/","notes":""}`),
		ContentType: "application/json",
	})
	s.Equal(http.StatusOK, status)
	s.InDelta(1, body["id"], 0)
	s.Equal("Github", body["title"])
}

func (s *BookmarksControllerSuite) TestUpdateRequiresAllFields() {
	status, body := s.do(requestFields{
		Method:      http.MethodPut,
		URL:         "/api/bookmarks/1/",
		Body:        strings.NewReader(`{"title":"Github"}`),
		ContentType: "application/json",
	})
	s.Equal(http.StatusBadRequest, status)
	s.Contains(body, "url")
}

func (s *BookmarksControllerSuite) TestPartialUpdate() {
	notes := "updated"
	b := bookmark(1, "Google")
	b.Notes = notes
	s.store.EXPECT().
		Update(gomock.Any(), uint(1), services.BookmarkChanges{Notes: &notes}).
		Return(&b, nil)
	s.store.EXPECT().
		Update(gomock.Any(), uint(2), gomock.Any()).
		Return(nil, services.ErrRecordNotFound)

	status, body := s.do(requestFields{
		Method:      http.MethodPatch,
		URL:         "/api/bookmarks/1/",
		Body:        strings.NewReader(`{"notes":"updated"}`),
		ContentType: "application/json",
	})
	s.Equal(http.StatusOK, status)
	s.Equal(notes, body["notes"])

	status, _ = s.do(requestFields{
		Method:      http.MethodPatch,
		URL:         "/api/bookmarks/2/",
		Body:        strings.NewReader(`{"notes":"updated"}`),
		ContentType: "application/json",
	})
	s.Equal(http.StatusNotFound, status)
}

func (s *BookmarksControllerSuite) TestDestroy() {
	s.store.EXPECT().Delete(gomock.Any(), uint(1)).Return(nil)
	s.store.EXPECT().Delete(gomock.Any(), uint(2)).Return(services.ErrRecordNotFound)
	s.store.EXPECT().Delete(gomock.Any(), uint(3)).Return(errors.New("disk I/O error"))

	res := s.makeRaw(requestFields{Method: http.MethodDelete, URL: "/api/bookmarks/1/"})
	defer res.Body.Close()
	s.Equal(http.StatusNoContent, res.StatusCode)
	body, err := readBody(res.Body, false)
	s.Require().NoError(err)
	s.Empty(body)

	status, _ := s.do(requestFields{Method: http.MethodDelete, URL: "/api/bookmarks/2/"})
	s.Equal(http.StatusNotFound, status)

	status, _ = s.do(requestFields{Method: http.MethodDelete, URL: "/api/bookmarks/3/"})
	s.Equal(http.StatusInternalServerError, status)
}

func (s *BookmarksControllerSuite) TestMethodNotAllowedAndUnknownRoute() {
	status, body := s.do(requestFields{Method: http.MethodDelete, URL: "/api/bookmarks/"})
	s.Equal(http.StatusMethodNotAllowed, status)
	s.Equal(`Method "DELETE" not allowed.`, body["detail"])

	status, body = s.do(requestFields{Method: http.MethodGet, URL: "/api/snippets/"})
	s.Equal(http.StatusNotFound, status)
	s.Equal("Not found.", body["detail"])
}

func (s *BookmarksControllerSuite) TestAPIRoot() {
	status, body := s.do(requestFields{Method: http.MethodGet, URL: "/api/"})
	s.Equal(http.StatusOK, status)
	s.Equal("http://test.com:8080/api/bookmarks/", body["bookmarks"])
}

func (s *BookmarksControllerSuite) TestPing() {
	s.ping.EXPECT().CheckConnection(gomock.Any()).Return(nil)
	s.ping.EXPECT().CheckConnection(gomock.Any()).Return(services.ErrStorageUnavailable)
	s.ping.EXPECT().CheckConnection(gomock.Any()).Return(errors.New("unexpected"))

	res := s.makeRaw(requestFields{Method: http.MethodGet, URL: "/ping"})
	defer res.Body.Close()
	s.Equal(http.StatusOK, res.StatusCode)

	res2 := s.makeRaw(requestFields{Method: http.MethodGet, URL: "/ping"})
	defer res2.Body.Close()
	s.Equal(http.StatusServiceUnavailable, res2.StatusCode)

	res3 := s.makeRaw(requestFields{Method: http.MethodGet, URL: "/ping"})
	defer res3.Body.Close()
	s.Equal(http.StatusInternalServerError, res3.StatusCode)
}
