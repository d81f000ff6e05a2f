package ports

import (
	"context"
	"time"

	"github.com/usermgmt/user-management-api/internal/core/domain"
)

// AuthService is the registration and login surface consumed by the HTTP
// handlers.
type AuthService interface {
	Register(ctx context.Context, username, email, password, roleName string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}

// TokenIssuer mints and verifies signed bearer tokens.
type TokenIssuer interface {
	Issue(identity domain.VerifiedIdentity) (token string, expiresAt time.Time, err error)
	Verify(token string) (*domain.AuthClaims, error)
}

// FaultReporter is the best-effort side-channel for unhandled login faults.
type FaultReporter interface {
	Report(err error)
}
