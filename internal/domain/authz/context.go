package authz

import (
	"context"
	"strings"

	"github.com/orderhub/authz-gateway/internal/domain/policy"
)

// User is the enriched identity made available to downstream handlers after
// an allow decision.
type User struct {
	ID        string
	Role      string
	Companies []string
}

type userContextKey struct{}

// ContextWithUser attaches the authorized user to the context.
func ContextWithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userContextKey{}, &user)
}

// UserFromContext extracts the authorized user from the context.
func UserFromContext(ctx context.Context) (User, bool) {
	if ctx == nil {
		return User{}, false
	}
	v, ok := ctx.Value(userContextKey{}).(*User)
	if !ok || v == nil {
		return User{}, false
	}
	return *v, true
}

// UserFromDecision rebuilds the user from an allow decision's context map.
func UserFromDecision(decisionContext map[string]string) User {
	user := User{
		ID:   decisionContext[policy.ContextKeyID],
		Role: decisionContext[policy.ContextKeyRole],
	}
	if joined := decisionContext[policy.ContextKeyCompanies]; joined != "" {
		user.Companies = strings.Split(joined, ",")
	}
	return user
}
