package middleware

import (
	"net/http"
	"time"
)

const AdminTokenCookie = "admin_token"

// CookiePolicy is the single definition of the admin session cookie. Setting
// and clearing must use identical attributes or browsers keep the old cookie.
type CookiePolicy struct {
	Name   string
	Path   string
	Secure bool
	MaxAge time.Duration
}

func NewCookiePolicy(secure bool, maxAge time.Duration) CookiePolicy {
	return CookiePolicy{
		Name:   AdminTokenCookie,
		Path:   "/",
		Secure: secure,
		MaxAge: maxAge,
	}
}

func (p CookiePolicy) base() *http.Cookie {
	return &http.Cookie{
		Name:     p.Name,
		Path:     p.Path,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// Read returns the cookie value, or "" when absent.
func (p CookiePolicy) Read(r *http.Request) string {
	cookie, err := r.Cookie(p.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (p CookiePolicy) Set(w http.ResponseWriter, value string) {
	c := p.base()
	c.Value = value
	c.MaxAge = int(p.MaxAge.Seconds())
	http.SetCookie(w, c)
}

// Clear emits an empty value with Max-Age=0.
func (p CookiePolicy) Clear(w http.ResponseWriter) {
	c := p.base()
	c.Value = ""
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}
