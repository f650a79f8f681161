package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/genix/genix-site/internal/audit"
	apperrors "github.com/genix/genix-site/internal/errors"
	"github.com/genix/genix-site/internal/httputil"
	"github.com/genix/genix-site/internal/middleware"
	"github.com/genix/genix-site/internal/model"
	"github.com/genix/genix-site/internal/service"
)

// SessionService is the part of service.SessionService the handler needs.
type SessionService interface {
	Resolve(ctx context.Context, rawToken string) (*model.AdminIdentity, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
}

type SessionHandler struct {
	sessions SessionService
	cookies  middleware.CookiePolicy
}

func NewSessionHandler(sessions SessionService, cookies middleware.CookiePolicy) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		cookies:  cookies,
	}
}

// Routes mounts the session endpoints. loginLimit wraps only the login route.
func (h *SessionHandler) Routes(loginLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	login := http.Handler(http.HandlerFunc(h.Login))
	if loginLimit != nil {
		login = loginLimit(login)
	}
	r.Method(http.MethodPost, "/login", login)
	r.Get("/verify", h.Verify)
	r.Post("/logout", h.Logout)

	return r
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/admin/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.ValidationError("Invalid request body"))
		return
	}

	result, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		code := apperrors.GetCode(err)
		eventType := audit.EventLoginFailure
		if code == apperrors.ErrCodeAccountDeactivated {
			eventType = audit.EventAccountDeactivated
		}
		audit.LogFromRequest(r, audit.Event{
			Type:    eventType,
			Email:   req.Email,
			Details: map[string]interface{}{"code": string(code)},
		})
		httputil.WriteError(w, err)
		return
	}

	h.cookies.Set(w, result.Token)
	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventLoginSuccess,
		AdminID: result.Identity.ID,
		Email:   result.Identity.Email,
	})

	writeJSON(w, http.StatusOK, sessionResponse{Success: true, User: result.Identity})
}

// GET /api/admin/verify
func (h *SessionHandler) Verify(w http.ResponseWriter, r *http.Request) {
	identity, err := h.sessions.Resolve(r.Context(), h.cookies.Read(r))
	if err != nil {
		code := apperrors.GetCode(err)
		if code != apperrors.ErrCodeCredentialMissing {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventAuthFailure,
				Details: map[string]interface{}{"code": string(code)},
			})
		}
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Success: true, User: identity})
}

// POST /api/admin/logout
//
// The token is stateless, so logout only removes it from the browser.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.cookies.Read(r) != "" {
		audit.LogFromRequest(r, audit.Event{Type: audit.EventLogout})
	} else {
		log.Ctx(r.Context()).Debug().Msg("logout without session cookie")
	}

	h.cookies.Clear(w)
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Logged out"})
}
