package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/usermgmt/user-management-api/internal/core/domain"
)

type stubUserLister struct {
	users []*domain.User
	err   error
}

func (s *stubUserLister) ListUsers(_ context.Context) ([]*domain.User, error) {
	return s.users, s.err
}

func TestUserHandler_List(t *testing.T) {
	stub := &stubUserLister{
		users: []*domain.User{
			{ID: "id-1", Username: "alice", Email: "a@x.com", Roles: []string{domain.RoleUser}, PasswordHash: "hash", SecurityStamp: "stamp"},
			{ID: "id-2", Username: "bob", Roles: []string{domain.RoleAdmin}},
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/api/Users", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 users, got %d", len(resp))
	}
	if resp[0]["username"] != "alice" {
		t.Fatalf("unexpected payload: %+v", resp[0])
	}
	for _, u := range resp {
		if _, leaked := u["password_hash"]; leaked {
			t.Fatalf("password hash leaked: %+v", u)
		}
	}
}
