package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/store-directory/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`[{"slug":"coffee-corner"}]`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsTruncated(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, {0, 0, 0, 200, 0, 0, 9, 9}} {
		_, _, _, ok := decodePayload(bs)
		assert.False(t, ok)
	}
}

func TestCacheKeySeparatesUsersAndQueries(t *testing.T) {
	cfg := config.CacheConfig{KeyStrategy: "route_query", Prefix: "cache"}

	key := func(query string, uid any) string {
		req := httptest.NewRequest(http.MethodGet, "/api/search?"+query, nil)
		c := echo.New().NewContext(req, httptest.NewRecorder())
		c.SetPath("/api/search")
		if uid != nil {
			c.Set("user_id", uid)
		}
		return cacheKeyFrom(cfg, c)
	}

	assert.Equal(t, key("q=coffee", nil), key("q=coffee", nil))
	assert.NotEqual(t, key("q=coffee", nil), key("q=beer", nil))
	// Pages render differently for the session owner.
	assert.NotEqual(t, key("q=coffee", nil), key("q=coffee", uint64(42)))
}

func TestStorableRejectsCookieBearingResponses(t *testing.T) {
	plain := http.Header{}
	plain.Set("Content-Type", "text/html")
	assert.True(t, storable(http.StatusOK, plain))

	withFlash := http.Header{}
	withFlash.Add(echo.HeaderSetCookie, "flash=ZXlK; Path=/")
	assert.False(t, storable(http.StatusOK, withFlash))

	withSession := http.Header{}
	withSession.Add(echo.HeaderSetCookie, "session=tok; Path=/; HttpOnly")
	assert.False(t, storable(http.StatusOK, withSession))

	assert.False(t, storable(http.StatusSeeOther, plain))
	assert.False(t, storable(http.StatusInternalServerError, plain))
}

func TestCacheDisabledPassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)

	req := httptest.NewRequest(http.MethodGet, "/stores", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	called := false
	require.NoError(t, mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})(c))
	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
