package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puravida/internal/http/handlers"
)

// Burst hits return 429.
func TestRateLimits(t *testing.T) {
	app := newTestApp(t, handlers.AppOptions{
		SearchLimit:  handlers.Limit{Max: 3, Window: time.Minute},
		ContactLimit: handlers.Limit{Max: 2, Window: time.Minute},
	})

	for i := 0; i < 4; i++ {
		resp, _ := app.get(t, "/search?q=beach")
		if i < 3 {
			require.NotEqual(t, http.StatusTooManyRequests, resp.StatusCode, "search limit too early at %d", i)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		}
	}

	for i := 0; i < 3; i++ {
		resp, body := app.post(t, "/contact", contactForm())
		if i < 2 {
			require.Equal(t, http.StatusOK, resp.StatusCode, "contact limit too early at %d", i)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
			assert.Contains(t, body, "Too many messages")
		}
	}
	assert.Equal(t, 2, app.Mail.count())
}

func TestGlobalRateLimit(t *testing.T) {
	app := newTestApp(t, handlers.AppOptions{GlobalLimit: handlers.Limit{Max: 2, Window: time.Minute}})

	app.get(t, "/healthz")
	app.get(t, "/healthz")
	resp, _ := app.get(t, "/healthz")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

// Oversized POST bodies are rejected with 413.
func TestBodySizeLimit(t *testing.T) {
	app := newTestApp(t, handlers.AppOptions{MaxRequestBody: 1 << 10})
	app.get(t, "/contact")
	tok := app.cookie["csrf_"]
	require.NotEmpty(t, tok)

	form := url.Values{"csrf": {tok}, "message": {string(bytes.Repeat([]byte("A"), 4<<10))}}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range app.cookie {
		req.AddCookie(&http.Cookie{Name: k, Value: v})
	}
	resp, err := app.Test(req, -1)
	// fasthttp may drop the connection instead of answering
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Zero(t, app.Mail.count())
}
