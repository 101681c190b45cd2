package v1

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/customer-service/internal/auth"
	"github.com/duynhne/customer-service/internal/core/domain"
	"github.com/duynhne/customer-service/middleware"
)

// AuthService implements login, registration, and startup seeding over
// the credential store.
type AuthService struct {
	users  domain.UserRepository
	tokens *auth.TokenManager
}

// NewAuthService creates a new auth service.
func NewAuthService(users domain.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies credentials and issues a session token.
// A missing user and a wrong password both map to ErrInvalidCredentials
// so the response does not reveal which usernames exist. bcrypt's
// comparison is constant-time against the stored hash.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.LoginResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
	))
	defer span.End()

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			span.SetAttributes(attribute.Bool("auth.success", false))
			return nil, fmt.Errorf("login %q: %w", username, domain.ErrInvalidCredentials)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("lookup user %q: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		return nil, fmt.Errorf("login %q: %w", username, domain.ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue token for %q: %w", username, err)
	}

	span.SetAttributes(attribute.Bool("auth.success", true))
	return &domain.LoginResponse{
		Token:     token,
		Username:  user.Username,
		ExpiresIn: formatTTL(s.tokens.TTL()),
	}, nil
}

// Register stores a new credential record with a bcrypt-hashed password.
// Role defaults to USER when omitted.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) error {
	ctx, span := middleware.StartSpan(ctx, "auth.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", req.Username),
	))
	defer span.End()

	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		span.SetAttributes(attribute.Bool("user.created", false))
		return fmt.Errorf("register %q: %w", req.Username, domain.ErrUserExists)
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		span.RecordError(err)
		return fmt.Errorf("check username %q: %w", req.Username, err)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("hash password for %q: %w", req.Username, err)
	}

	if _, err := s.users.Create(ctx, &domain.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         role,
	}); err != nil {
		span.RecordError(err)
		return fmt.Errorf("create user %q: %w", req.Username, err)
	}

	span.SetAttributes(attribute.Bool("user.created", true))
	return nil
}

// ResolveUser looks up a credential record for the auth middleware.
func (s *AuthService) ResolveUser(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// SeedDefaultUsers inserts fixed development accounts when the
// credential store is empty. Not intended as production seeding.
func (s *AuthService) SeedDefaultUsers(ctx context.Context) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		username, password, role string
	}{
		{"admin", "admin123", domain.RoleAdmin},
		{"john", "password123", domain.RoleUser},
		{"jane", "password123", domain.RoleUser},
	}

	for _, d := range defaults {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password for %q: %w", d.username, err)
		}
		if _, err := s.users.Create(ctx, &domain.User{
			Username:     d.username,
			PasswordHash: string(hash),
			Role:         d.role,
		}); err != nil {
			return fmt.Errorf("seed user %q: %w", d.username, err)
		}
	}
	return nil
}

// formatTTL renders the validity window the way the frontend displays
// it, e.g. "10 hours".
func formatTTL(ttl time.Duration) string {
	hours := int(ttl.Hours())
	if hours == 1 {
		return "1 hour"
	}
	if hours >= 1 && ttl == time.Duration(hours)*time.Hour {
		return fmt.Sprintf("%d hours", hours)
	}
	return ttl.String()
}
