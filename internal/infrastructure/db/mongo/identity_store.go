package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/usermgmt/user-management-api/internal/core/domain"
)

const (
	usersCollection = "users"
	rolesCollection = "roles"
)

// IdentityStore is the MongoDB-backed implementation of ports.IdentityStore.
// It owns password hashing, username case normalization and role membership.
type IdentityStore struct {
	users *mongo.Collection
	roles *mongo.Collection
}

func NewIdentityStore(db *mongo.Database) *IdentityStore {
	return &IdentityStore{
		users: db.Collection(usersCollection),
		roles: db.Collection(rolesCollection),
	}
}

type userDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Username      string             `bson:"username"`
	UsernameLower string             `bson:"username_lower"`
	Email         string             `bson:"email,omitempty"`
	PasswordHash  string             `bson:"password_hash"`
	SecurityStamp string             `bson:"security_stamp"`
	Roles         []string           `bson:"roles,omitempty"`
	CreatedAt     int64              `bson:"created_at"`
	UpdatedAt     int64              `bson:"updated_at"`
}

type roleDoc struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

// EnsureIndexes creates the unique indexes duplicate detection relies on.
// Idempotent; called once at startup.
func (s *IdentityStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username_lower", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users index: %w", err)
	}

	_, err = s.roles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("roles index: %w", err)
	}
	return nil
}

// SeedRoles inserts the given role names when absent. Idempotent across
// restarts; never deletes or renames existing roles.
func (s *IdentityStore) SeedRoles(ctx context.Context, names ...string) error {
	for _, name := range names {
		_, err := s.roles.UpdateOne(ctx,
			bson.M{"name": name},
			bson.M{"$setOnInsert": bson.M{"name": name}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed role %q: %w", name, err)
		}
	}
	return nil
}

func (s *IdentityStore) RoleExists(ctx context.Context, name string) (bool, error) {
	n, err := s.roles.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		return false, fmt.Errorf("count roles: %w", err)
	}
	return n > 0, nil
}

func (s *IdentityStore) CreateUser(ctx context.Context, user *domain.User, rawPassword string) (*domain.User, error) {
	hash, err := hashPassword(rawPassword)
	if err != nil {
		return nil, err
	}

	doc := userDoc{
		Username:      user.Username,
		UsernameLower: strings.ToLower(user.Username),
		Email:         user.Email,
		PasswordHash:  hash,
		SecurityStamp: user.SecurityStamp,
		CreatedAt:     user.CreatedAt.Unix(),
		UpdatedAt:     user.UpdatedAt.Unix(),
	}

	res, err := s.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.PasswordHash = hash
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (s *IdentityStore) AddRoleToUser(ctx context.Context, userID, roleName string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", err)
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"roles": roleName}},
	)
	if err != nil {
		return fmt.Errorf("add role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *IdentityStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"username_lower": strings.ToLower(username)}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return docToUser(&doc), nil
}

func (s *IdentityStore) CheckPassword(user *domain.User, rawPassword string) bool {
	return checkPassword(user.PasswordHash, rawPassword)
}

func (s *IdentityStore) ListUsers(ctx context.Context) ([]*domain.User, error) {
	cursor, err := s.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, docToUser(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func docToUser(doc *userDoc) *domain.User {
	return &domain.User{
		ID:            doc.ID.Hex(),
		Username:      doc.Username,
		Email:         doc.Email,
		PasswordHash:  doc.PasswordHash,
		SecurityStamp: doc.SecurityStamp,
		Roles:         doc.Roles,
		CreatedAt:     unixToTime(doc.CreatedAt),
		UpdatedAt:     unixToTime(doc.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
