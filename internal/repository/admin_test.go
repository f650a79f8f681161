package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genix/genix-site/internal/model"
)

var adminRowColumns = []string{
	"id", "email", "name", "password_hash", "role", "is_active", "last_login_at", "created_at", "updated_at",
}

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "postgres"), mock
}

func adminRow(id, email string, active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(adminRowColumns).
		AddRow(id, email, "Admin", "$2a$10$hash", "admin", active, nil, now, now)
}

func TestAdminRepository_FindByID(t *testing.T) {
	t.Run("returns admin", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewAdminRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM admins")).
			WithArgs("admin-1").
			WillReturnRows(adminRow("admin-1", "a@genix.test", true))

		admin, err := repo.FindByID(context.Background(), "admin-1")
		require.NoError(t, err)
		require.NotNil(t, admin)
		assert.Equal(t, "admin-1", admin.ID)
		assert.Equal(t, "a@genix.test", admin.Email)
		assert.True(t, admin.IsActive)
		assert.Nil(t, admin.LastLoginAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for missing admin", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewAdminRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM admins")).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		admin, err := repo.FindByID(context.Background(), "missing")
		require.NoError(t, err)
		assert.Nil(t, admin)
	})

	t.Run("propagates database errors", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewAdminRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM admins")).
			WithArgs("admin-1").
			WillReturnError(errors.New("connection refused"))

		admin, err := repo.FindByID(context.Background(), "admin-1")
		assert.Error(t, err)
		assert.Nil(t, admin)
	})
}

func TestAdminRepository_FindByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE email = $1")).
		WithArgs("owner@genix.test").
		WillReturnRows(adminRow("admin-2", "owner@genix.test", false))

	admin, err := repo.FindByEmail(context.Background(), "  Owner@Genix.test ")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.False(t, admin.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO admins")).
		WithArgs(sqlmock.AnyArg(), "new@genix.test", "New", "hash", model.RoleAdmin, true).
		WillReturnRows(adminRow("generated", "new@genix.test", true))

	admin, err := repo.Create(context.Background(), model.CreateAdminParams{
		Email:        "New@genix.test",
		Name:         "New",
		PasswordHash: "hash",
		IsActive:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "generated", admin.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_SetActive(t *testing.T) {
	t.Run("updates flag", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewAdminRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE admins SET is_active = $2")).
			WithArgs("admin-1", false).
			WillReturnRows(adminRow("admin-1", "a@genix.test", false))

		admin, err := repo.SetActive(context.Background(), "admin-1", false)
		require.NoError(t, err)
		require.NotNil(t, admin)
		assert.False(t, admin.IsActive)
	})

	t.Run("returns nil when admin does not exist", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewAdminRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE admins SET is_active = $2")).
			WithArgs("missing", true).
			WillReturnError(sql.ErrNoRows)

		admin, err := repo.SetActive(context.Background(), "missing", true)
		require.NoError(t, err)
		assert.Nil(t, admin)
	})
}

func TestAdminRepository_TouchLastLogin(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE admins SET last_login_at = NOW()")).
		WithArgs("admin-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.TouchLastLogin(context.Background(), "admin-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
