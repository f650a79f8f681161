package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/genix/genix-site/internal/errors"
	"github.com/genix/genix-site/internal/middleware"
	"github.com/genix/genix-site/internal/model"
	"github.com/genix/genix-site/internal/service"
)

type mockSessionService struct {
	ResolveFunc func(ctx context.Context, rawToken string) (*model.AdminIdentity, error)
	LoginFunc   func(ctx context.Context, email, password string) (*service.LoginResult, error)
}

func (m *mockSessionService) Resolve(ctx context.Context, rawToken string) (*model.AdminIdentity, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, rawToken)
	}
	return nil, apperrors.CredentialMissing()
}

func (m *mockSessionService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, apperrors.InvalidCredentials()
}

var testIdentity = &model.AdminIdentity{ID: "admin-1", Email: "owner@genix.test", Name: "Owner"}

func newTestSessionRouter(svc SessionService) http.Handler {
	h := NewSessionHandler(svc, middleware.NewCookiePolicy(true, 24*time.Hour))
	return h.Routes(nil)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSessionHandler_Verify(t *testing.T) {
	t.Run("valid session returns identity", func(t *testing.T) {
		var gotToken string
		router := newTestSessionRouter(&mockSessionService{
			ResolveFunc: func(_ context.Context, rawToken string) (*model.AdminIdentity, error) {
				gotToken = rawToken
				return testIdentity, nil
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/verify", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AdminTokenCookie, Value: "tok"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "tok", gotToken)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, map[string]any{"id": "admin-1", "email": "owner@genix.test", "name": "Owner"}, body["user"])
	})

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"missing cookie", apperrors.CredentialMissing(), http.StatusUnauthorized, "CREDENTIAL_MISSING", "Not authenticated"},
		{"invalid token", apperrors.InvalidToken(), http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired session"},
		{"unknown admin", apperrors.AccountNotFound(), http.StatusUnauthorized, "ACCOUNT_NOT_FOUND", ""},
		{"deactivated", apperrors.AccountDeactivated(), http.StatusForbidden, "ACCOUNT_DEACTIVATED", "Account is deactivated"},
		{"store failure", apperrors.Database(assert.AnError), http.StatusInternalServerError, "DATABASE_ERROR", "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestSessionRouter(&mockSessionService{
				ResolveFunc: func(_ context.Context, _ string) (*model.AdminIdentity, error) {
					return nil, tt.err
				},
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/verify", nil))

			assert.Equal(t, tt.status, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.code, body["code"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			}
			assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
		})
	}
}

func TestSessionHandler_Login(t *testing.T) {
	t.Run("success sets cookie and returns identity", func(t *testing.T) {
		router := newTestSessionRouter(&mockSessionService{
			LoginFunc: func(_ context.Context, email, password string) (*service.LoginResult, error) {
				assert.Equal(t, "owner@genix.test", email)
				assert.Equal(t, "correct horse", password)
				return &service.LoginResult{Token: "signed-token", Identity: testIdentity}, nil
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"owner@genix.test","password":"correct horse"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "admin_token", cookies[0].Name)
		assert.Equal(t, "signed-token", cookies[0].Value)
		assert.Equal(t, 86400, cookies[0].MaxAge)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)

		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.NotContains(t, rec.Body.String(), "signed-token")
	})

	t.Run("bad credentials", func(t *testing.T) {
		router := newTestSessionRouter(&mockSessionService{})

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"x@genix.test","password":"nope"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Header().Get("Set-Cookie"))
		assert.Equal(t, "INVALID_CREDENTIALS", decodeBody(t, rec)["code"])
	})

	t.Run("deactivated account", func(t *testing.T) {
		router := newTestSessionRouter(&mockSessionService{
			LoginFunc: func(_ context.Context, _, _ string) (*service.LoginResult, error) {
				return nil, apperrors.AccountDeactivated()
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"x@genix.test","password":"pw"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, rec.Header().Get("Set-Cookie"))
	})

	t.Run("malformed body", func(t *testing.T) {
		router := newTestSessionRouter(&mockSessionService{
			LoginFunc: func(_ context.Context, _, _ string) (*service.LoginResult, error) {
				t.Fatal("login should not be called")
				return nil, nil
			},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, rec)["code"])
	})

	t.Run("login limiter wraps only login", func(t *testing.T) {
		blocked := func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			})
		}
		h := NewSessionHandler(&mockSessionService{}, middleware.NewCookiePolicy(false, time.Hour))
		router := h.Routes(blocked)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{}")))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/verify", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSessionHandler_Logout(t *testing.T) {
	for _, withCookie := range []bool{true, false} {
		name := "without cookie"
		if withCookie {
			name = "with cookie"
		}
		t.Run(name, func(t *testing.T) {
			router := newTestSessionRouter(&mockSessionService{})

			req := httptest.NewRequest(http.MethodPost, "/logout", nil)
			if withCookie {
				req.AddCookie(&http.Cookie{Name: middleware.AdminTokenCookie, Value: "tok"})
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			setCookie := rec.Header().Get("Set-Cookie")
			assert.Contains(t, setCookie, "admin_token=;")
			assert.Contains(t, setCookie, "Max-Age=0")

			body := decodeBody(t, rec)
			assert.Equal(t, true, body["success"])
			assert.Equal(t, "Logged out", body["message"])
		})
	}
}
