package domain

import (
	"context"
	"errors"
)

// User is the acting identity supplied by the auth collaborator.
type User struct {
	ID   string
	Name string
	Role Role
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin sees deleted entries and may edit the catalog, delete and reverse.
	RoleAdmin Role = "admin"

	// RoleCashier records and edits its own entries.
	RoleCashier Role = "cashier"
)

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleCashier
}

// IsAdmin reports whether the role has superuser visibility.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)

type userContextKey struct{}

// ContextWithUser returns a copy of ctx carrying the acting user.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the acting user, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok && user != nil
}

type requestIDContextKey struct{}

// ContextWithRequestID returns a copy of ctx carrying the request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

// RequestIDFromContext returns the request id, or "" when none is set.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
