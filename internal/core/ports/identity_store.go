package ports

import (
	"context"

	"github.com/usermgmt/user-management-api/internal/core/domain"
)

// IdentityStore is the persistence collaborator owning user records, password
// hashes and role membership. Password hashing and comparison live entirely
// behind this interface; the core never sees plaintext beyond the call
// boundary nor any hash.
type IdentityStore interface {
	// RoleExists reports whether a role with the given name has been seeded.
	RoleExists(ctx context.Context, name string) (bool, error)

	// CreateUser persists a new identity, hashing rawPassword with the
	// store's own algorithm. Duplicate usernames yield ErrUserExists;
	// rejected passwords yield an ErrValidation-wrapped error.
	CreateUser(ctx context.Context, user *domain.User, rawPassword string) (*domain.User, error)

	// AddRoleToUser assigns an existing role to an existing identity.
	AddRoleToUser(ctx context.Context, userID, roleName string) error

	// FindByUsername looks up an identity by its case-normalized username.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// CheckPassword compares rawPassword against the stored hash using the
	// store's constant-time comparison.
	CheckPassword(user *domain.User, rawPassword string) bool
}

// UserLister exposes the read path consumed by the admin user listing.
type UserLister interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
