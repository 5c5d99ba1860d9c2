package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shohorbari/internal/microservices/http-api/models"
	"shohorbari/internal/microservices/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jsonRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegister_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	router := setupRouter(NewAuthHandler(mockAuthService))

	mockAuthService.On("Register", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "rahim@example.com" && u.Role == models.RoleUser
	}), "password123").Return(&models.User{ID: 5, Email: "rahim@example.com", FirstName: "Rahim", Role: models.RoleUser}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/auth/register", map[string]any{
		"email":      "Rahim@Example.com",
		"password":   "password123",
		"first_name": "Rahim",
		"role":       "admin", // not client settable
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(5), resp["id"])
	assert.Equal(t, "user", resp["role"])
	assert.NotContains(t, resp, "password")
	mockAuthService.AssertExpectations(t)
}

func TestRegister_EmailInUse(t *testing.T) {
	mockAuthService := new(MockAuthService)
	router := setupRouter(NewAuthHandler(mockAuthService))

	mockAuthService.On("Register", mock.Anything, mock.Anything, "password123").
		Return(nil, fmt.Errorf("%w: %w", service.ErrConflict, service.ErrEmailInUse))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/auth/register", map[string]any{
		"email": "taken@example.com", "password": "password123",
	}))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_ValidationFields(t *testing.T) {
	router := setupRouter(NewAuthHandler(new(MockAuthService)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/auth/register", map[string]any{
		"email": "not-an-email", "password": "short",
	}))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Error)
	assert.Contains(t, resp.Fields, "email")
	assert.Contains(t, resp.Fields, "password")
}

func TestRegister_PasswordTooLong(t *testing.T) {
	mockAuthService := new(MockAuthService)
	router := setupRouter(NewAuthHandler(mockAuthService))

	// over 72 runes never reaches the service
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/auth/register", map[string]any{
		"email": "long@example.com", "password": strings.Repeat("p", 100),
	}))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"password"`)
	mockAuthService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)

	// few runes but too many bytes is rejected by the service
	wide := strings.Repeat("😀", 20)
	mockAuthService.On("Register", mock.Anything, mock.Anything, wide).
		Return(nil, service.NewValidationError("password", "ensure this field has no more than 72 bytes"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/auth/register", map[string]any{
		"email": "wide@example.com", "password": wide,
	}))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"validation failed","fields":{"password":"ensure this field has no more than 72 bytes"}}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	mockAuthService := new(MockAuthService)
	router := setupRouter(NewAuthHandler(mockAuthService))

	mockAuthService.On("Login", mock.Anything, "a@example.com", "password123").
		Return(&service.TokenPair{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 900}, &models.User{ID: 1, Email: "a@example.com", Role: "user"}, nil)
	mockAuthService.On("Login", mock.Anything, "a@example.com", "wrong").
		Return(nil, nil, service.ErrInvalidCredentials)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@example.com", "password": "password123"}))
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "at", resp["access_token"])
	assert.Equal(t, "rt", resp["refresh_token"])
	assert.Equal(t, "Bearer", resp["token_type"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@example.com", "password": "wrong"}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshToken_Invalid(t *testing.T) {
	mockAuthService := new(MockAuthService)
	router := setupRouter(NewAuthHandler(mockAuthService))
	mockAuthService.On("Refresh", mock.Anything, "used").Return(nil, service.ErrInvalidToken)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": "used"}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRevokeToken_AlwaysOK(t *testing.T) {
	mockAuthService := new(MockAuthService)
	router := setupRouter(NewAuthHandler(mockAuthService))
	mockAuthService.On("Revoke", mock.Anything, "whatever").Return(errors.New("db hiccup"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/auth/revoke", map[string]string{"refresh_token": "whatever"}))
	assert.Equal(t, http.StatusOK, w.Code)
	mockAuthService.AssertExpectations(t)
}

func TestMe(t *testing.T) {
	mockAuthService := new(MockAuthService)
	router := setupRouter(NewAuthHandler(mockAuthService))
	mockAuthService.On("Me", mock.Anything, anonP).Return(nil, service.ErrUnauthenticated)
	mockAuthService.On("Me", mock.Anything, userP).Return(&models.User{ID: 2, Email: "u@example.com", Role: "user"}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, withToken(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), "user"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u@example.com")

	// a bad token is rejected before the handler runs
	w = httptest.NewRecorder()
	router.ServeHTTP(w, withToken(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), "forged"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockAuthService.AssertNumberOfCalls(t, "Me", 2)
}
