package domain

import (
	"context"
	"errors"
)

// Actor is the identity supplied by the caller's auth context.
type Actor struct {
	ID   string
	Name string
	Role Role
}

// Role represents an actor's access level
type Role string

const (
	// RoleCollector works a route and owns their boxes
	RoleCollector Role = "collector"

	// RoleSupervisor approves requests and may close any box
	RoleSupervisor Role = "supervisor"

	// RoleAdmin has full access to all operations
	RoleAdmin Role = "admin"
)

var validRoles = map[Role]bool{
	RoleCollector:  true,
	RoleSupervisor: true,
	RoleAdmin:      true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanSupervise checks if the role may approve requests, override openings
// and close other collectors' boxes
func (r Role) CanSupervise() bool {
	return r == RoleSupervisor || r == RoleAdmin
}

// CanSupervise reports whether the actor holds a supervising role.
func (a Actor) CanSupervise() bool {
	return a.ID != "" && a.Role.CanSupervise()
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)

type actorCtxKey struct{}

// ContextWithActor stores the actor in ctx.
func ContextWithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, a)
}

// ActorFromContext returns the actor stored by ContextWithActor.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorCtxKey{}).(Actor)
	return a, ok
}

// ActorIDFromContext returns the actor id or "system".
func ActorIDFromContext(ctx context.Context) string {
	if a, ok := ActorFromContext(ctx); ok && a.ID != "" {
		return a.ID
	}
	return "system"
}
