package token

import (
	"context"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// KeyProvider supplies the issuer's current public key set. Implementations
// may cache; the verifier calls Keys on every verification.
type KeyProvider interface {
	Keys(ctx context.Context) (jwk.Set, error)
}

type jwksProvider struct {
	url   string
	cache *jwk.Cache
}

// NewJWKSProvider returns a KeyProvider backed by a refreshing JWKS cache.
// Fetches are lazy; a failed refresh keeps serving the previously fetched
// keys, so transient issuer outages do not fail verification while a key set
// is still cached.
func NewJWKSProvider(ctx context.Context, jwksURL string, refreshInterval time.Duration) (KeyProvider, error) {
	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL, jwk.WithMinRefreshInterval(refreshInterval)); err != nil {
		return nil, fmt.Errorf("failed to register JWKS endpoint: %w", err)
	}
	return &jwksProvider{url: jwksURL, cache: cache}, nil
}

func (p *jwksProvider) Keys(ctx context.Context) (jwk.Set, error) {
	set, err := p.cache.Get(ctx, p.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	return set, nil
}

// StaticKeyProvider wraps a fixed key set. Used by tests and by deployments
// with pinned keys.
type StaticKeyProvider struct {
	Set jwk.Set
}

func (p StaticKeyProvider) Keys(_ context.Context) (jwk.Set, error) {
	if p.Set == nil {
		return nil, fmt.Errorf("no key set configured")
	}
	return p.Set, nil
}
