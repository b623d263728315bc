package controllers

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type requestFields struct {
	Method      string
	URL         string
	Body        io.Reader
	ContentType string
	Gzipped     bool
	Headers     map[string]string
}

func makeRequest(router http.Handler, f requestFields) *http.Response {
	body := f.Body
	if body != nil && f.Gzipped {
		raw, _ := io.ReadAll(body)
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write(raw)
		_ = zw.Close()
		body = &buf
	}

	req := httptest.NewRequest(f.Method, f.URL, body)
	if f.ContentType != "" {
		req.Header.Set("Content-Type", f.ContentType)
	}
	if f.Gzipped {
		req.Header.Set("Content-Encoding", "gzip")
		req.Header.Set("Accept-Encoding", "gzip")
	}
	for k, v := range f.Headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Result()
}

func readBody(body io.Reader, gzipped bool) ([]byte, error) {
	if !gzipped {
		return io.ReadAll(body) //nolint:wrapcheck
	}
	zr, err := gzip.NewReader(body)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	defer zr.Close()
	return io.ReadAll(zr) //nolint:wrapcheck
}
