package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/genix/genix-site/internal/errors"
)

func TestStatusFromCode(t *testing.T) {
	tests := []struct {
		code   apperrors.ErrorCode
		status int
	}{
		{apperrors.ErrCodeCredentialMissing, http.StatusUnauthorized},
		{apperrors.ErrCodeInvalidToken, http.StatusUnauthorized},
		{apperrors.ErrCodeAccountNotFound, http.StatusUnauthorized},
		{apperrors.ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{apperrors.ErrCodeAccountDeactivated, http.StatusForbidden},
		{apperrors.ErrCodeValidation, http.StatusBadRequest},
		{apperrors.ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{apperrors.ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{apperrors.ErrCodeAlreadyExists, http.StatusConflict},
		{apperrors.ErrCodeDatabase, http.StatusInternalServerError},
		{apperrors.ErrorCode("SOMETHING_NEW"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.status, StatusFromCode(tt.code))
		})
	}
}

func TestWriteError(t *testing.T) {
	t.Run("writes app error envelope", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, apperrors.AccountDeactivated())

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "Account is deactivated", body.Message)
		assert.Equal(t, apperrors.ErrCodeAccountDeactivated, body.Code)
	})

	t.Run("hides unknown error details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, errors.New("pq: password authentication failed for user postgres"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "postgres")
		assert.Contains(t, rec.Body.String(), `"success":false`)
	})

	t.Run("database error hides cause", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, apperrors.Database(errors.New("SELECT * FROM admins failed")))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "SELECT")
	})
}
