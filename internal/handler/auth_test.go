package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/class-schedule/internal/config"
	"github.com/iliyamo/class-schedule/internal/repository"
	"github.com/iliyamo/class-schedule/internal/utils"
)

var userCols = []string{"id", "email", "password_hash", "email_verified", "is_active", "created_at", "updated_at"}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{
		Env:            "dev",
		JWTSecret:      "test-secret",
		AccessTTLMin:   5,
		RefreshTTLDays: 7,
		VerifyTTLHours: 48,
		BcryptCost:     bcrypt.MinCost,
	}
	h := NewAuthHandler(cfg,
		repository.NewUserRepo(db),
		repository.NewTokenRepo(db),
		repository.NewVerificationRepo(db))
	return h, mock
}

func jsonCtx(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegister(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("new@example.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(uint64(11), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO verification_tokens").
		WithArgs(uint64(11), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := jsonCtx(e, http.MethodPost, "/v1/auth/register", `{"email":"New@Example.com","password":"secret"}`)
	require.NoError(t, h.Register(c))

	require.Equal(t, http.StatusCreated, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	user := got["user"].(map[string]any)
	assert.Equal(t, "new@example.com", user["email"])
	assert.Equal(t, false, user["verified"])
	assert.NotEmpty(t, got["access"].(map[string]any)["token"])
	assert.NotEmpty(t, got["refresh"].(map[string]any)["token"])
	// In dev the verification token rides along so the confirmation
	// flow can be exercised without a mailer.
	assert.NotEmpty(t, got["verification_token"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errDuplicate{})

	c, rec := jsonCtx(e, http.MethodPost, "/v1/auth/register", `{"email":"taken@example.com","password":"secret"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// errDuplicate mimics the MySQL duplicate-key error text.
type errDuplicate struct{}

func (errDuplicate) Error() string { return "Error 1062 (23000): Duplicate entry" }

func TestRegisterMissingFields(t *testing.T) {
	h, _ := newAuthHandler(t)
	e := echo.New()

	for _, body := range []string{`{}`, `{"email":"a@b.c"}`, `{"password":"x"}`} {
		c, rec := jsonCtx(e, http.MethodPost, "/v1/auth/register", body)
		require.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestLogin(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	hash, err := utils.HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()

	t.Run("happy path", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("a@b.c").
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(11, "a@b.c", hash, true, true, now, now))
		mock.ExpectExec("INSERT INTO refresh_tokens").
			WillReturnResult(sqlmock.NewResult(1, 1))

		c, rec := jsonCtx(e, http.MethodPost, "/v1/auth/login", `{"email":"a@b.c","password":"secret"}`)
		require.NoError(t, h.Login(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var got authResp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, uint64(11), got.User.ID)
		assert.True(t, got.User.Verified)
		assert.NotEmpty(t, got.Access.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("a@b.c").
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(11, "a@b.c", hash, true, true, now, now))

		c, rec := jsonCtx(e, http.MethodPost, "/v1/auth/login", `{"email":"a@b.c","password":"nope"}`)
		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
			WithArgs("ghost@b.c").
			WillReturnError(sql.ErrNoRows)

		c, rec := jsonCtx(e, http.MethodPost, "/v1/auth/login", `{"email":"ghost@b.c","password":"secret"}`)
		require.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmEmail(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	t.Run("valid token verifies user", func(t *testing.T) {
		mock.ExpectExec("UPDATE verification_tokens").
			WithArgs(sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT user_id FROM verification_tokens").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(9))
		mock.ExpectExec("UPDATE users SET email_verified").
			WithArgs(uint64(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		c, rec := jsonCtx(e, http.MethodPost, "/v1/auth/confirm", `{"token":"raw-token"}`)
		require.NoError(t, h.ConfirmEmail(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("used or expired token rejected", func(t *testing.T) {
		mock.ExpectExec("UPDATE verification_tokens").
			WithArgs(sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		c, rec := jsonCtx(e, http.MethodPost, "/v1/auth/confirm", `{"token":"stale"}`)
		require.NoError(t, h.ConfirmEmail(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		c, rec := jsonCtx(e, http.MethodPost, "/v1/auth/confirm", `{}`)
		require.NoError(t, h.ConfirmEmail(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshRotatesToken(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	now := time.Now().UTC()
	raw := "some-refresh-token"
	hash := utils.HashTokenRaw(raw)

	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens").
		WithArgs(hash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(11, now.Add(time.Hour), nil))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at").
		WithArgs(hash).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(11, "a@b.c", "x", true, true, now, now))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WillReturnResult(sqlmock.NewResult(2, 1))

	c, rec := jsonCtx(e, http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"`+raw+`"}`)
	require.NoError(t, h.Refresh(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEqual(t, raw, got.Refresh.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}
