package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/app"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/storage"
)

func newTestApp(t *testing.T, backend string) *app.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:  config.ServerConfig{Port: 8080, Mode: "test"},
		Storage: config.StorageConfig{Backend: backend, Key: storage.DefaultKey, Path: t.TempDir()},
	}
	a, cleanup, err := app.Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return a
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func sendJSON(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// containers 把主页拆成未读完、已读完两段
func containers(t *testing.T, body string) (incomplete, complete string) {
	t.Helper()
	i := strings.Index(body, `id="incompleteBookList"`)
	c := strings.Index(body, `id="completeBookList"`)
	require.True(t, i >= 0 && c > i, "页面缺少列表容器")
	return body[i:c], body[c:]
}

func addBookForm(title, author, year string, complete bool) url.Values {
	form := url.Values{
		"bookFormTitle":  {title},
		"bookFormAuthor": {author},
		"bookFormYear":   {year},
	}
	if complete {
		form.Set("bookFormIsComplete", "on")
	}
	return form
}
