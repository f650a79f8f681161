package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/lib/pq"

	"github.com/genix/genix-site/internal/audit"
	apperrors "github.com/genix/genix-site/internal/errors"
	"github.com/genix/genix-site/internal/model"
	"github.com/genix/genix-site/internal/repository"
	"github.com/genix/genix-site/internal/util"
)

const pqUniqueViolation = "23505"

// AdminService manages admin accounts out of band (seeding, activation).
type AdminService struct {
	adminRepo repository.AdminRepository
}

func NewAdminService(adminRepo repository.AdminRepository) *AdminService {
	return &AdminService{adminRepo: adminRepo}
}

type CreateAdminInput struct {
	Email    string
	Name     string
	Password string
	Role     string
	Inactive bool
}

func (s *AdminService) CreateAdmin(ctx context.Context, in CreateAdminInput) (*model.Admin, error) {
	email := repository.NormalizeEmail(in.Email)
	if email == "" {
		return nil, apperrors.MissingRequired("email")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.InvalidInput("email", "not a valid address")
	}

	hash, err := util.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.InvalidInput("password", err.Error())
	}

	admin, err := s.adminRepo.Create(ctx, model.CreateAdminParams{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     !in.Inactive,
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, apperrors.AlreadyExists("Admin")
		}
		ctxLogger(ctx).Error().Err(err).Str("email", email).Msg("failed to create admin")
		return nil, apperrors.Database(err)
	}

	audit.Log(ctx, audit.Event{
		Type:    audit.EventAdminCreate,
		AdminID: admin.ID,
		Email:   admin.Email,
	})
	return admin, nil
}

// SetActive flips the active flag for the admin with the given id or email.
// Deactivation takes effect on the next authoritative session check.
func (s *AdminService) SetActive(ctx context.Context, idOrEmail string, active bool) (*model.Admin, error) {
	idOrEmail = strings.TrimSpace(idOrEmail)
	if idOrEmail == "" {
		return nil, apperrors.MissingRequired("admin")
	}

	id := idOrEmail
	if strings.Contains(idOrEmail, "@") {
		admin, err := s.adminRepo.FindByEmail(ctx, idOrEmail)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		if admin == nil {
			return nil, apperrors.NotFound("Admin")
		}
		id = admin.ID
	}

	admin, err := s.adminRepo.SetActive(ctx, id, active)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if admin == nil {
		return nil, apperrors.NotFound("Admin")
	}

	audit.Log(ctx, audit.Event{
		Type:    audit.EventAdminStatusChange,
		AdminID: admin.ID,
		Email:   admin.Email,
		Details: map[string]interface{}{"active": active},
	})
	return admin, nil
}
