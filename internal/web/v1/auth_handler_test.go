package v1_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "john",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	decodeBody(t, w, &resp)
	assert.Equal(t, "john", resp["username"])
	assert.Equal(t, "10 hours", resp["expiresIn"])
	assert.NotEmpty(t, resp["token"])
	assert.True(t, env.tokens.Validate(resp["token"], "john"))
}

func TestLoginEndpointInvalidCredentials(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "john",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]string
	decodeBody(t, w, &resp)
	assert.Equal(t, "Invalid credentials", resp["error"])
	assert.Empty(t, resp["token"])
}

func TestLoginEndpointMissingFields(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "john",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "alice",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	decodeBody(t, w, &resp)
	assert.Equal(t, "User registered successfully", resp["message"])

	// The new account can log in immediately.
	w = env.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice",
		"password": "secret",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterEndpointConflict(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "john",
		"password": "whatever",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]string
	decodeBody(t, w, &resp)
	assert.Equal(t, "Username already exists", resp["error"])

	// The original credential still works.
	w = env.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "john",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
