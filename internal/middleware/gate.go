package middleware

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/genix/genix-site/internal/metrics"
	"github.com/genix/genix-site/internal/token"
)

// GateRules describes which paths the route gate polices.
type GateRules struct {
	LoginPath       string
	ProtectedPrefix string
	DashboardPath   string
	RedirectParam   string
}

func DefaultGateRules() GateRules {
	return GateRules{
		LoginPath:       "/admin-genix",
		ProtectedPrefix: "/admin-genix/dashboard",
		DashboardPath:   "/admin-genix/dashboard",
		RedirectParam:   "redirect",
	}
}

func (g GateRules) isProtected(path string) bool {
	prefix := strings.TrimSuffix(g.ProtectedPrefix, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func (g GateRules) isLogin(path string) bool {
	return path == g.LoginPath || path == g.LoginPath+"/"
}

// TokenVerifier checks a token without touching the store.
type TokenVerifier interface {
	Verify(raw string) (token.Claims, error)
}

// RouteGate redirects between the login page and the dashboard based on a
// signature-only token check. Admin existence and status are re-checked by
// the verify endpoint, not here.
type RouteGate struct {
	rules    GateRules
	verifier TokenVerifier
	cookies  CookiePolicy
	metrics  *metrics.Auth
}

func NewRouteGate(rules GateRules, verifier TokenVerifier, cookies CookiePolicy, m *metrics.Auth) *RouteGate {
	if m == nil {
		m = metrics.Nop()
	}
	return &RouteGate{
		rules:    rules,
		verifier: verifier,
		cookies:  cookies,
		metrics:  m,
	}
}

func (g *RouteGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := canonicalPath(r.URL.Path)

		switch {
		case g.rules.isProtected(path):
			raw := g.cookies.Read(r)
			if raw == "" {
				g.metrics.GateDecision(metrics.DecisionRedirectLogin)
				http.Redirect(w, r, g.loginURL(path), http.StatusFound)
				return
			}
			if _, err := g.verifier.Verify(raw); err != nil {
				log.Debug().Str("path", path).Str("reason", string(token.ReasonOf(err))).Msg("route gate: invalid session cookie")
				g.metrics.GateDecision(metrics.DecisionRedirectClear)
				g.cookies.Clear(w)
				http.Redirect(w, r, g.rules.LoginPath, http.StatusFound)
				return
			}

		case g.rules.isLogin(path):
			raw := g.cookies.Read(r)
			if raw != "" {
				if _, err := g.verifier.Verify(raw); err == nil {
					g.metrics.GateDecision(metrics.DecisionRedirectDashboard)
					http.Redirect(w, r, g.rules.DashboardPath, http.StatusFound)
					return
				}
			}

		default:
			next.ServeHTTP(w, r)
			return
		}

		g.metrics.GateDecision(metrics.DecisionPass)
		next.ServeHTTP(w, r)
	})
}

// canonicalPath resolves "//", "." and ".." segments the same way the static
// file server does, so a non-canonical spelling cannot skip the gate.
func canonicalPath(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}

// loginURL keeps slashes readable in the redirect target while escaping
// everything that could break out of the query value.
func (g *RouteGate) loginURL(path string) string {
	target := strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
	return g.rules.LoginPath + "?" + g.rules.RedirectParam + "=" + target
}
