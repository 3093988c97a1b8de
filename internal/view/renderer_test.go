package view

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestNewParsesAllTemplates(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	require.NotNil(t, r)
}

func TestRenderErrorPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, "error", map[string]any{
		"Title":   "Forbidden",
		"Message": "You must own a store in order to edit it",
	}, testContext())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Forbidden")
	assert.Contains(t, buf.String(), "You must own a store in order to edit it")
}

func TestRenderNotFoundPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "notFound", map[string]any{"Title": "Not found"}, testContext()))
	assert.Contains(t, buf.String(), "Page not found")
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.Error(t, r.Render(&buf, "no-such-page", nil, testContext()))
}
