package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticPages(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{"/about/author/", "/about/tech/"} {
		w := app.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := app.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = app.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestNotFoundPage(t *testing.T) {
	app := setupApp(t)

	w := app.do(t, http.MethodGet, "/noexisturl/", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Custom 404")
	assert.Contains(t, w.Body.String(), "/noexisturl/")
}
