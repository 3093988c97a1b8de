package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctxWithCookies(cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// flashCookie returns the last flash Set-Cookie, which is the one a browser
// would keep when a response carries several.
func flashCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	var last *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "flash" {
			last = ck
		}
	}
	return last
}

func TestSetThenTake(t *testing.T) {
	c, rec := ctxWithCookies()
	Set(c, "success", "Review saved!")

	ck := flashCookie(rec)
	require.NotNil(t, ck)
	require.NotEmpty(t, ck.Value)

	// Next request delivers and clears the notice.
	c2, rec2 := ctxWithCookies(ck)
	msgs := Take(c2)
	require.Len(t, msgs, 1)
	assert.Equal(t, Message{Kind: "success", Text: "Review saved!"}, msgs[0])

	cleared := flashCookie(rec2)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestSetAccumulatesWithinOneRequest(t *testing.T) {
	c, rec := ctxWithCookies()
	Set(c, "error", "Description cannot be blank")
	Set(c, "error", "Address cannot be blank")

	// Replay the winning cookie as the next request.
	c2, _ := ctxWithCookies(flashCookie(rec))
	msgs := Take(c2)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Description cannot be blank", msgs[0].Text)
	assert.Equal(t, "Address cannot be blank", msgs[1].Text)
}

func TestSetAccumulatesAcrossRedirects(t *testing.T) {
	c, rec := ctxWithCookies()
	Set(c, "error", "Description cannot be blank")

	c2, rec2 := ctxWithCookies(flashCookie(rec))
	Set(c2, "error", "Address cannot be blank")

	c3, _ := ctxWithCookies(flashCookie(rec2))
	msgs := Take(c3)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Description cannot be blank", msgs[0].Text)
	assert.Equal(t, "Address cannot be blank", msgs[1].Text)
}

func TestTakeNothingPending(t *testing.T) {
	c, rec := ctxWithCookies()
	assert.Nil(t, Take(c))
	assert.Nil(t, flashCookie(rec)) // no pointless clear cookie
}

func TestTakeIgnoresGarbage(t *testing.T) {
	c, _ := ctxWithCookies(&http.Cookie{Name: "flash", Value: "%%%not-base64%%%"})
	assert.Nil(t, Take(c))
}
