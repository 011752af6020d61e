package auth

import (
	"context"

	"github.com/baharkarakas/sweetshop/internal/models"
)

// Principal is the caller identity derived from a valid session.
type Principal struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

func (p Principal) Authenticated() bool { return p.UserID != "" }
func (p Principal) IsAdmin() bool       { return p.Authenticated() && p.Role == models.RoleAdmin }

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the request principal, or the zero (anonymous) value.
func FromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Principal{}
}
