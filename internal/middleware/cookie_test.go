package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookiePolicy(t *testing.T) {
	t.Run("set carries session attributes", func(t *testing.T) {
		policy := NewCookiePolicy(true, 24*time.Hour)
		rec := httptest.NewRecorder()

		policy.Set(rec, "tok")

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, "admin_token", c.Name)
		assert.Equal(t, "tok", c.Value)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, 86400, c.MaxAge)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	})

	t.Run("secure flag follows environment", func(t *testing.T) {
		policy := NewCookiePolicy(false, time.Hour)
		rec := httptest.NewRecorder()

		policy.Set(rec, "tok")

		assert.NotContains(t, rec.Header().Get("Set-Cookie"), "Secure")
	})

	t.Run("clear mirrors set attributes", func(t *testing.T) {
		policy := NewCookiePolicy(true, time.Hour)
		rec := httptest.NewRecorder()

		policy.Clear(rec)

		header := rec.Header().Get("Set-Cookie")
		assert.Contains(t, header, "admin_token=;")
		assert.Contains(t, header, "Path=/")
		assert.Contains(t, header, "Max-Age=0")
		assert.Contains(t, header, "HttpOnly")
		assert.Contains(t, header, "Secure")
		assert.Contains(t, header, "SameSite=Strict")
	})

	t.Run("read", func(t *testing.T) {
		policy := NewCookiePolicy(false, time.Hour)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Equal(t, "", policy.Read(req))

		req.AddCookie(&http.Cookie{Name: "admin_token", Value: "abc"})
		assert.Equal(t, "abc", policy.Read(req))
	})
}
