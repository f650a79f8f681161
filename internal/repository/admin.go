package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/genix/genix-site/internal/model"
)

type AdminRepository interface {
	FindByID(ctx context.Context, id string) (*model.Admin, error)
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	Create(ctx context.Context, params model.CreateAdminParams) (*model.Admin, error)
	SetActive(ctx context.Context, id string, active bool) (*model.Admin, error)
	TouchLastLogin(ctx context.Context, id string) error
}

type adminRepo struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &adminRepo{db: db}
}

const adminColumns = `id, email, name, password_hash, role, is_active, last_login_at, created_at, updated_at`

func (r *adminRepo) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	return getOne[model.Admin](ctx, r.db, `
		SELECT `+adminColumns+` FROM admins
		WHERE id = $1
	`, id)
}

func (r *adminRepo) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return getOne[model.Admin](ctx, r.db, `
		SELECT `+adminColumns+` FROM admins
		WHERE email = $1
	`, NormalizeEmail(email))
}

func (r *adminRepo) Create(ctx context.Context, params model.CreateAdminParams) (*model.Admin, error) {
	role := params.Role
	if role == "" {
		role = model.RoleAdmin
	}

	return getOne[model.Admin](ctx, r.db, `
		INSERT INTO admins (id, email, name, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+adminColumns,
		uuid.NewString(), NormalizeEmail(params.Email), params.Name, params.PasswordHash, role, params.IsActive,
	)
}

func (r *adminRepo) SetActive(ctx context.Context, id string, active bool) (*model.Admin, error) {
	return getOne[model.Admin](ctx, r.db, `
		UPDATE admins SET is_active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+adminColumns,
		id, active,
	)
}

func (r *adminRepo) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE admins SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
