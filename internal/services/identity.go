package services

import (
	"context"

	"base64-api/internal/models"
)

const IdentityContextKey contextKey = "identity"

// Identity is the resolved caller of a metered request: either anonymous
// (IP only) or authenticated by a validated API key.
type Identity struct {
	IP     string
	APIKey *models.APIKey
}

func (i *Identity) Authenticated() bool {
	return i.APIKey != nil
}

func WithIdentityContext(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, identity)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(*Identity)
	return identity, ok
}
