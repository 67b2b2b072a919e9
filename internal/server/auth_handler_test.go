package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobtrack/internal/types"
)

func TestRegisterAndLogin(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, "POST", "/auth/register", "", types.CreateUserRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "secret-password",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var registered types.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	assert.Equal(t, "ada@example.com", registered.User.Email)
	assert.NotEmpty(t, registered.Token)

	rec = doRequest(s, "POST", "/auth/login", "", types.LoginRequest{
		Email:    "ada@example.com",
		Password: "secret-password",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var logged types.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logged))
	assert.Equal(t, registered.User.ID, logged.User.ID)
	assert.NotEmpty(t, logged.Token)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s, _ := newTestServer(t)
	registerUser(t, s, "dup@example.com")

	rec := doRequest(s, "POST", "/auth/register", "", types.CreateUserRequest{
		Name:     "Other",
		Email:    "dup@example.com",
		Password: "another-password",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_Validation(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		req  types.CreateUserRequest
	}{
		{"missing email", types.CreateUserRequest{Name: "A", Password: "secret-password"}},
		{"bad email", types.CreateUserRequest{Name: "A", Email: "not-an-email", Password: "secret-password"}},
		{"short password", types.CreateUserRequest{Name: "A", Email: "a@example.com", Password: "short"}},
		{"missing name", types.CreateUserRequest{Email: "a@example.com", Password: "secret-password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(s, "POST", "/auth/register", "", tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	s, _ := newTestServer(t)
	registerUser(t, s, "user@example.com")

	rec := doRequest(s, "POST", "/auth/login", "", types.LoginRequest{
		Email:    "user@example.com",
		Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	s, _ := newTestServer(t)
	registerUser(t, s, "known@example.com")

	wrongPassword := doRequest(s, "POST", "/auth/login", "", types.LoginRequest{
		Email:    "known@example.com",
		Password: "wrong-password",
	})
	unknownEmail := doRequest(s, "POST", "/auth/login", "", types.LoginRequest{
		Email:    "unknown@example.com",
		Password: "wrong-password",
	})

	// Same status and message either way, so callers cannot probe for
	// registered addresses.
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestMe(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "me@example.com")

	rec := doRequest(s, "GET", "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user types.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "me@example.com", user.Email)
}

func TestUpdatePassword(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "pw@example.com")

	rec := doRequest(s, "PUT", "/auth/password", token, types.UpdatePasswordRequest{
		CurrentPassword: "secret-password",
		NewPassword:     "new-secret-password",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Old password no longer works.
	rec = doRequest(s, "POST", "/auth/login", "", types.LoginRequest{
		Email:    "pw@example.com",
		Password: "secret-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// New one does.
	rec = doRequest(s, "POST", "/auth/login", "", types.LoginRequest{
		Email:    "pw@example.com",
		Password: "new-secret-password",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdatePassword_WrongCurrent(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "pw2@example.com")

	rec := doRequest(s, "PUT", "/auth/password", token, types.UpdatePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "new-secret-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
