// Package flash implements one-time notices carried in a short-lived
// cookie: set on one response, read and cleared by the next render.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	cookieName = "flash"
	pendingKey = "flash_pending" // context key for messages set earlier in this request
)

// Message is a single notice with a severity category used for styling.
type Message struct {
	Kind string `json:"kind"` // "success", "info" or "error"
	Text string `json:"text"`
}

// Set appends a notice for the next rendered page. Messages accumulate both
// across a redirect chain and within a single request: repeated calls while
// handling one request (a validation loop flashing every problem) must all
// survive into the final cookie, so the pending slice lives in the context
// rather than being re-read from the request cookie each time.
func Set(c echo.Context, kind, text string) {
	msgs, ok := c.Get(pendingKey).([]Message)
	if !ok {
		msgs = peek(c)
	}
	msgs = append(msgs, Message{Kind: kind, Text: text})
	c.Set(pendingKey, msgs)
	payload, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(5 * time.Minute),
	})
}

// Take returns pending notices and clears them so they render exactly once.
func Take(c echo.Context) []Message {
	msgs := peek(c)
	if msgs != nil {
		c.SetCookie(&http.Cookie{
			Name:     cookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
	}
	return msgs
}

func peek(c echo.Context) []Message {
	ck, err := c.Cookie(cookieName)
	if err != nil || ck.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil
	}
	return msgs
}
