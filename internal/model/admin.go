package model

import (
	"time"
)

const RoleAdmin = "admin"

type Admin struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Name         string     `db:"name" json:"name"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// AdminIdentity is the public projection of an Admin returned to clients.
type AdminIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (a *Admin) Identity() *AdminIdentity {
	return &AdminIdentity{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
	}
}

type CreateAdminParams struct {
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     bool
}
