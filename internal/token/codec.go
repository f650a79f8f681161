// Package token issues and verifies the signed admin session token carried
// in the admin_token cookie.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalid is matched by every verification failure. Callers must not
// distinguish between the underlying reasons when answering clients.
var ErrInvalid = errors.New("invalid token")

// Reason describes why verification failed, for server-side logs only.
type Reason string

const (
	ReasonMalformed Reason = "malformed"
	ReasonSignature Reason = "signature"
	ReasonExpired   Reason = "expired"
	ReasonClaims    Reason = "claims"
)

// VerifyError carries the failure reason and matches ErrInvalid.
type VerifyError struct {
	Reason Reason
	cause  error
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("invalid token (%s)", e.Reason)
}

func (e *VerifyError) Is(target error) bool {
	return target == ErrInvalid
}

func (e *VerifyError) Unwrap() error {
	return e.cause
}

// Claims is the identity embedded in a session token.
type Claims struct {
	AdminID   string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Config is validated by NewCodec and immutable afterwards.
type Config struct {
	Secret string
	TTL    time.Duration
	Issuer string
	Now    func() time.Time
}

type Codec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token secret is required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Codec{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    cfg.Now,
	}, nil
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs claims with HS256. The expiry is exactly TTL after issuance,
// truncated to whole seconds like every JWT NumericDate.
func (c *Codec) Issue(claims Claims) (string, error) {
	if strings.TrimSpace(claims.AdminID) == "" {
		return "", errors.New("admin id is required")
	}

	issuedAt := c.now().Truncate(time.Second)
	sc := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.AdminID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
		Email: claims.Email,
		Role:  claims.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sc).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer and expiry. It performs no I/O.
func (c *Codec) Verify(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, &VerifyError{Reason: ReasonMalformed}
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	var sc sessionClaims
	_, err := jwt.ParseWithClaims(raw, &sc, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, &VerifyError{Reason: reasonFor(err), cause: err}
	}
	if sc.Subject == "" {
		return Claims{}, &VerifyError{Reason: ReasonClaims}
	}

	claims := Claims{
		AdminID:   sc.Subject,
		Email:     sc.Email,
		Role:      sc.Role,
		ExpiresAt: sc.ExpiresAt.Time,
	}
	if sc.IssuedAt != nil {
		claims.IssuedAt = sc.IssuedAt.Time
	}
	return claims, nil
}

func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformed
	default:
		return ReasonClaims
	}
}

// ReasonOf extracts the failure reason from a Verify error.
func ReasonOf(err error) Reason {
	var ve *VerifyError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ""
}
