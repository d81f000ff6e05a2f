package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/usermgmt/user-management-api/internal/core/domain"
	"github.com/usermgmt/user-management-api/internal/core/ports"
)

// AuthService implements registration and login on top of the Identity Store
// and the token issuer. It holds no state of its own; every request is
// handled independently.
type AuthService struct {
	store  ports.IdentityStore
	tokens ports.TokenIssuer
}

func NewAuthService(store ports.IdentityStore, tokens ports.TokenIssuer) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

// Register creates a new identity and assigns roleName to it. The role must
// already exist; registration never creates roles and never issues a token.
func (s *AuthService) Register(ctx context.Context, username, email, password, roleName string) (*domain.User, error) {
	if username == "" || password == "" || roleName == "" {
		return nil, domain.ErrInvalidRequest
	}

	ok, err := s.store.RoleExists(ctx, roleName)
	if err != nil {
		return nil, fmt.Errorf("role lookup: %w", err)
	}
	if !ok {
		return nil, domain.ErrRoleNotFound
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:      username,
		Email:         email,
		SecurityStamp: uuid.NewString(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.store.CreateUser(ctx, user, password)
	if err != nil {
		return nil, err
	}

	if err := s.store.AddRoleToUser(ctx, created.ID, roleName); err != nil {
		return nil, fmt.Errorf("assign role: %w", err)
	}
	created.Roles = append(created.Roles, roleName)

	return created, nil
}

// Verify checks the credential pair against the store. Unknown usernames and
// wrong passwords are indistinguishable to the caller; only a store
// round-trip failure surfaces as anything other than ErrInvalidCredentials.
func (s *AuthService) Verify(ctx context.Context, username, password string) (*domain.VerifiedIdentity, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.store.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.store.CheckPassword(user, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.VerifiedIdentity{
		ID:       user.ID,
		Username: user.Username,
		Roles:    user.Roles,
	}, nil
}

// Login verifies the credentials and mints a signed bearer token, returning
// the serialized token and its expiry.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	identity, err := s.Verify(ctx, username, password)
	if err != nil {
		return "", time.Time{}, err
	}
	return s.tokens.Issue(*identity)
}
