package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"identity/internal/delivery/http/middleware"
	"identity/internal/delivery/http/response"
	"identity/internal/delivery/http/validator"
	"identity/internal/infra/auth"
	"identity/internal/infra/persistence/memory"
	"identity/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := memory.NewUserRepository()
	hasher := auth.NewArgon2HasherWithParams(auth.Argon2Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	uc := impl.NewUserService(memory.NewTransactionManager(users), hasher, logger)
	h := NewUserHandler(uc, logger)

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError
	e.POST("/auth/signup", h.Signup)
	e.POST("/auth/login", h.Login)
	e.PUT("/users/:id", h.Update)

	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp
}

const signupBody = `{
	"name": "Example User",
	"email": "user@example.com",
	"password": "foobar",
	"password_confirmation": "foobar"
}`

func TestUserHandler_Signup(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/signup", signupBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Example User", data["name"])
	assert.Equal(t, "user@example.com", data["email"])
	assert.NotEmpty(t, data["id"])

	// Credentials never appear in the payload.
	assert.NotContains(t, rec.Body.String(), "salt")
	assert.NotContains(t, rec.Body.String(), "encrypted_password")
}

func TestUserHandler_SignupValidationFailure(t *testing.T) {
	e := newTestServer(t)

	body := `{"name": "", "email": "user@foo,com", "password": "short", "password_confirmation": "other"}`
	rec := doJSON(e, http.MethodPost, "/auth/signup", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "name_blank")
	assert.Contains(t, resp.Error.Details, "email_invalid")
}

func TestUserHandler_SignupDuplicateEmail(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/signup", signupBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/auth/signup", signupBody)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Details, "email_taken")
}

func TestUserHandler_SignupRejectsUnknownFields(t *testing.T) {
	e := newTestServer(t)

	body := `{"name": "Example User", "email": "user@example.com", "password": "foobar", "password_confirmation": "foobar", "admin": true}`
	rec := doJSON(e, http.MethodPost, "/auth/signup", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandler_Login(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/signup", signupBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("correct credentials", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/auth/login", `{"email": "User@Example.com", "password": "foobar"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/auth/login", `{"email": "user@example.com", "password": "wrongpass"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
	})

	t.Run("unknown email gets the same response", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/auth/login", `{"email": "nobody@example.com", "password": "foobar"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/auth/login", `{"email": "user@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserHandler_Update(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/signup", signupBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeResponse(t, rec)
	id, ok := created.Data.(map[string]any)["id"].(string)
	require.True(t, ok)

	body := `{"name": "Renamed User", "email": "renamed@example.com", "password": "", "password_confirmation": ""}`
	rec = doJSON(e, http.MethodPut, "/users/"+id, body)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Renamed User", data["name"])
	assert.Equal(t, "renamed@example.com", data["email"])

	t.Run("invalid id", func(t *testing.T) {
		rec := doJSON(e, http.MethodPut, "/users/not-a-uuid", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := doJSON(e, http.MethodPut, "/users/7b1f0f5e-79a5-4c56-a2cd-3f9a1f4a9e0b", body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
