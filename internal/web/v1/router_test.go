package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/customer-service/internal/auth"
	"github.com/duynhne/customer-service/internal/core/domain"
	logicv1 "github.com/duynhne/customer-service/internal/logic/v1"
	v1 "github.com/duynhne/customer-service/internal/web/v1"
	"github.com/duynhne/customer-service/middleware"
)

type testEnv struct {
	router    *gin.Engine
	customers *memCustomerRepo
	tokens    *auth.TokenManager
}

// setupTestEnv wires the real handlers, services, and auth middleware
// over in-memory repositories, mirroring the route table in cmd/main.go.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	customers := newMemCustomerRepo()
	users := newMemUserRepo()
	tokens := auth.NewTokenManager("test-secret", 10*time.Hour)

	for _, u := range []struct {
		username, password, role string
	}{
		{"admin", "admin123", domain.RoleAdmin},
		{"john", "password123", domain.RoleUser},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.MinCost)
		require.NoError(t, err)
		_, err = users.Create(context.Background(), &domain.User{
			Username:     u.username,
			PasswordHash: string(hash),
			Role:         u.role,
		})
		require.NoError(t, err)
	}

	authService := logicv1.NewAuthService(users, tokens)
	customerService := logicv1.NewCustomerService(customers)

	authHandler := v1.NewAuthHandler(authService)
	customerHandler := v1.NewCustomerHandler(customerService)

	r := gin.New()
	r.Use(gin.Recovery())

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(tokens, authService, zap.NewNop()))
	{
		api.POST("/customers", customerHandler.Create)
		api.GET("/customers", customerHandler.GetAll)
		api.GET("/customers/search", customerHandler.Search)
		api.GET("/customers/:id", customerHandler.GetByID)

		admin := api.Group("/customers")
		admin.Use(middleware.RequireRole(domain.RoleAdmin))
		{
			admin.PUT("/:id", customerHandler.Update)
			admin.DELETE("/:id", customerHandler.Delete)
		}
	}

	return &testEnv{router: r, customers: customers, tokens: tokens}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody []byte
	if body != nil {
		var err error
		reqBody, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) tokenFor(t *testing.T, username string) string {
	t.Helper()
	token, err := e.tokens.Issue(username)
	require.NoError(t, err)
	return token
}

func (e *testEnv) seedCustomer(t *testing.T, first, last, phone, email string) domain.Customer {
	t.Helper()
	c, err := e.customers.Create(context.Background(), &domain.Customer{
		FirstName:   first,
		LastName:    last,
		Address:     "1 Main Street",
		PhoneNumber: phone,
		Email:       email,
	})
	require.NoError(t, err)
	return *c
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
