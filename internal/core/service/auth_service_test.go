package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/usermgmt/user-management-api/internal/core/domain"
)

type stubIdentityStore struct {
	users       map[string]*domain.User
	roles       map[string]struct{}
	createCalls int
	findErr     error
	roleErr     error
}

func newStubIdentityStore(roleNames ...string) *stubIdentityStore {
	roles := make(map[string]struct{}, len(roleNames))
	for _, r := range roleNames {
		roles[r] = struct{}{}
	}
	return &stubIdentityStore{
		users: make(map[string]*domain.User),
		roles: roles,
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]string(nil), u.Roles...)
	return &clone
}

func (s *stubIdentityStore) RoleExists(_ context.Context, name string) (bool, error) {
	if s.roleErr != nil {
		return false, s.roleErr
	}
	_, ok := s.roles[name]
	return ok, nil
}

func (s *stubIdentityStore) CreateUser(_ context.Context, user *domain.User, rawPassword string) (*domain.User, error) {
	s.createCalls++
	key := strings.ToLower(user.Username)
	if _, exists := s.users[key]; exists {
		return nil, domain.ErrUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	created := cloneUser(user)
	created.ID = "id-" + key
	created.PasswordHash = string(hash)
	s.users[key] = created
	return cloneUser(created), nil
}

func (s *stubIdentityStore) AddRoleToUser(_ context.Context, userID, roleName string) error {
	for _, u := range s.users {
		if u.ID == userID {
			u.Roles = append(u.Roles, roleName)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (s *stubIdentityStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	u, ok := s.users[strings.ToLower(username)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *stubIdentityStore) CheckPassword(user *domain.User, rawPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(rawPassword)) == nil
}

func newTestAuthService(t *testing.T, store *stubIdentityStore) *AuthService {
	t.Helper()
	tokens := newTestTokenService(t, TokenConfig{Issuer: "iss", Audience: "aud"})
	return NewAuthService(store, tokens)
}

func TestAuthService_Register_Success(t *testing.T) {
	store := newStubIdentityStore(domain.RoleAdmin, domain.RoleHR, domain.RoleUser)
	svc := newTestAuthService(t, store)

	user, err := svc.Register(context.Background(), "alice", "a@x.com", "P@ssw0rd!", domain.RoleUser)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected stored id")
	}
	if user.SecurityStamp == "" {
		t.Fatalf("expected fresh security stamp")
	}
	if len(user.Roles) != 1 || user.Roles[0] != domain.RoleUser {
		t.Fatalf("role not assigned: %+v", user.Roles)
	}
	if user.PasswordHash == "P@ssw0rd!" {
		t.Fatalf("expected password to be hashed by the store")
	}
}

func TestAuthService_Register_EmptyRequest(t *testing.T) {
	store := newStubIdentityStore(domain.RoleUser)
	svc := newTestAuthService(t, store)

	if _, err := svc.Register(context.Background(), "", "", "", ""); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if store.createCalls != 0 {
		t.Fatalf("store must not be called for empty input")
	}
}

func TestAuthService_Register_RoleNotFound(t *testing.T) {
	store := newStubIdentityStore(domain.RoleUser)
	svc := newTestAuthService(t, store)

	if _, err := svc.Register(context.Background(), "bob", "b@x.com", "P@ssw0rd!", "Ghost"); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
	if store.createCalls != 0 {
		t.Fatalf("identity must not be created when the role is missing")
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	store := newStubIdentityStore(domain.RoleUser)
	svc := newTestAuthService(t, store)

	if _, err := svc.Register(context.Background(), "bob", "b@x.com", "P@ssw0rd!", domain.RoleUser); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "b2@x.com", "0therP@ss!", domain.RoleUser); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(store.users) != 1 {
		t.Fatalf("expected exactly one stored identity, got %d", len(store.users))
	}
}

func TestAuthService_Verify_Success(t *testing.T) {
	store := newStubIdentityStore(domain.RoleHR)
	svc := newTestAuthService(t, store)

	if _, err := svc.Register(context.Background(), "carol", "c@x.com", "s3cretPW!", domain.RoleHR); err != nil {
		t.Fatalf("Register: %v", err)
	}

	identity, err := svc.Verify(context.Background(), "carol", "s3cretPW!")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.Username != "carol" || identity.ID == "" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if len(identity.Roles) != 1 || identity.Roles[0] != domain.RoleHR {
		t.Fatalf("roles not carried: %+v", identity.Roles)
	}
}

func TestAuthService_Verify_WrongPassword(t *testing.T) {
	store := newStubIdentityStore(domain.RoleUser)
	svc := newTestAuthService(t, store)

	_, _ = svc.Register(context.Background(), "dave", "d@x.com", "goodpass1", domain.RoleUser)
	if _, err := svc.Verify(context.Background(), "dave", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Verify_UnknownUserIndistinguishable(t *testing.T) {
	store := newStubIdentityStore(domain.RoleUser)
	svc := newTestAuthService(t, store)

	// An unknown username must yield the same error as a wrong password.
	if _, err := svc.Verify(context.Background(), "ghost", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Verify_StoreFaultIsNotUnauthorized(t *testing.T) {
	store := newStubIdentityStore(domain.RoleUser)
	store.findErr = errors.New("store unreachable")
	svc := newTestAuthService(t, store)

	_, err := svc.Verify(context.Background(), "alice", "P@ssw0rd!")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("store fault must not look like bad credentials, got %v", err)
	}
}

func TestAuthService_Login_ReturnsCompactToken(t *testing.T) {
	store := newStubIdentityStore(domain.RoleUser)
	svc := newTestAuthService(t, store)

	if _, err := svc.Register(context.Background(), "alice", "a@x.com", "P@ssw0rd!", domain.RoleUser); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, expiresAt, err := svc.Login(context.Background(), "alice", "P@ssw0rd!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected three-segment token, got %q", token)
	}
	if expiresAt.IsZero() {
		t.Fatalf("expected expiry timestamp")
	}
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	store := newStubIdentityStore(domain.RoleUser)
	svc := newTestAuthService(t, store)

	_, _ = svc.Register(context.Background(), "alice", "a@x.com", "P@ssw0rd!", domain.RoleUser)
	if _, _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
