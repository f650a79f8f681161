package service

import (
	"context"

	apperrors "github.com/genix/genix-site/internal/errors"
	"github.com/genix/genix-site/internal/metrics"
	"github.com/genix/genix-site/internal/model"
	"github.com/genix/genix-site/internal/repository"
	"github.com/genix/genix-site/internal/token"
	"github.com/genix/genix-site/internal/util"
)

// Session check outcomes, used as metric labels.
const (
	OutcomeOK                 = "ok"
	OutcomeMissing            = "missing"
	OutcomeInvalidToken       = "invalid_token"
	OutcomeNotFound           = "not_found"
	OutcomeDeactivated        = "deactivated"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeStoreError         = "store_error"
	OutcomeError              = "error"
)

// TokenCodec is the subset of token.Codec used by the session service.
type TokenCodec interface {
	Issue(claims token.Claims) (string, error)
	Verify(raw string) (token.Claims, error)
}

type LoginResult struct {
	Token    string
	Identity *model.AdminIdentity
}

type SessionService struct {
	adminRepo repository.AdminRepository
	codec     TokenCodec
	metrics   *metrics.Auth
}

func NewSessionService(adminRepo repository.AdminRepository, codec TokenCodec, m *metrics.Auth) *SessionService {
	if m == nil {
		m = metrics.Nop()
	}
	return &SessionService{
		adminRepo: adminRepo,
		codec:     codec,
		metrics:   m,
	}
}

// Resolve is the authoritative session check. The token only proves who the
// caller was at issuance; existence and active status are re-read from the
// store on every call.
func (s *SessionService) Resolve(ctx context.Context, rawToken string) (*model.AdminIdentity, error) {
	if rawToken == "" {
		s.metrics.SessionCheck(OutcomeMissing)
		return nil, apperrors.CredentialMissing()
	}

	claims, err := s.codec.Verify(rawToken)
	if err != nil {
		ctxLogger(ctx).Debug().Str("reason", string(token.ReasonOf(err))).Msg("session token rejected")
		s.metrics.SessionCheck(OutcomeInvalidToken)
		return nil, apperrors.InvalidToken()
	}

	admin, err := s.adminRepo.FindByID(ctx, claims.AdminID)
	if err != nil {
		ctxLogger(ctx).Error().Err(err).Str("adminId", claims.AdminID).Msg("session check: admin lookup failed")
		s.metrics.SessionCheck(OutcomeStoreError)
		return nil, apperrors.Database(err)
	}
	if admin == nil {
		s.metrics.SessionCheck(OutcomeNotFound)
		return nil, apperrors.AccountNotFound()
	}
	if !admin.IsActive {
		s.metrics.SessionCheck(OutcomeDeactivated)
		return nil, apperrors.AccountDeactivated()
	}

	s.metrics.SessionCheck(OutcomeOK)
	return admin.Identity(), nil
}

// Login checks credentials and issues a session token. Unknown email and
// wrong password produce the same error.
func (s *SessionService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = repository.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.MissingRequired("email")
	}
	if password == "" {
		return nil, apperrors.MissingRequired("password")
	}

	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		ctxLogger(ctx).Error().Err(err).Msg("login: admin lookup failed")
		s.metrics.Login(OutcomeStoreError)
		return nil, apperrors.Database(err)
	}
	if admin == nil {
		util.BurnPasswordCheck(password)
		s.metrics.Login(OutcomeInvalidCredentials)
		return nil, apperrors.InvalidCredentials()
	}
	if !util.CheckPasswordHash(password, admin.PasswordHash) {
		s.metrics.Login(OutcomeInvalidCredentials)
		return nil, apperrors.InvalidCredentials()
	}
	if !admin.IsActive {
		s.metrics.Login(OutcomeDeactivated)
		return nil, apperrors.AccountDeactivated()
	}

	raw, err := s.codec.Issue(token.Claims{
		AdminID: admin.ID,
		Email:   admin.Email,
		Role:    admin.Role,
	})
	if err != nil {
		ctxLogger(ctx).Error().Err(err).Str("adminId", admin.ID).Msg("login: token issue failed")
		s.metrics.Login(OutcomeError)
		return nil, apperrors.Internal("Internal server error").WithCause(err)
	}

	if err := s.adminRepo.TouchLastLogin(ctx, admin.ID); err != nil {
		ctxLogger(ctx).Warn().Err(err).Str("adminId", admin.ID).Msg("login: failed to record last login")
	}

	s.metrics.Login(OutcomeOK)
	return &LoginResult{Token: raw, Identity: admin.Identity()}, nil
}
