package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

// ErrTokenInvalid indicates the bearer token failed verification. The wrapped
// cause names the failing check and must not be echoed to callers.
var ErrTokenInvalid = errors.New("token invalid")

// Verifier authenticates raw bearer tokens against the trusted key set.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*Principal, error)
}

type Config struct {
	// Issuer is the expected iss claim value.
	Issuer string
	// ClientID must match either an aud entry or the client_id claim.
	// Access tokens from the issuer carry client_id rather than aud.
	ClientID string
	// ClockSkew is the allowed leeway when checking time-based claims.
	ClockSkew time.Duration
}

type verifier struct {
	cfg  Config
	keys KeyProvider
}

func NewVerifier(cfg Config, keys KeyProvider) Verifier {
	return &verifier{cfg: cfg, keys: keys}
}

func (v *verifier) Verify(ctx context.Context, raw string) (*Principal, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", ErrTokenInvalid)
	}

	set, err := v.keys.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: key set unavailable: %v", ErrTokenInvalid, err)
	}

	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.cfg.Issuer),
		jwt.WithAcceptableSkew(v.cfg.ClockSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if err := v.checkClient(tok); err != nil {
		return nil, err
	}

	use, ok := tok.Get("token_use")
	if !ok || use != TokenUseAccess {
		return nil, fmt.Errorf("%w: token_use is not %q", ErrTokenInvalid, TokenUseAccess)
	}

	if tok.Subject() == "" {
		return nil, fmt.Errorf("%w: subject missing", ErrTokenInvalid)
	}

	return &Principal{
		ID:        tok.Subject(),
		TokenUse:  TokenUseAccess,
		ExpiresAt: tok.Expiration(),
	}, nil
}

func (v *verifier) checkClient(tok jwt.Token) error {
	if v.cfg.ClientID == "" {
		return nil
	}
	for _, aud := range tok.Audience() {
		if aud == v.cfg.ClientID {
			return nil
		}
	}
	if clientID, ok := tok.Get("client_id"); ok && clientID == v.cfg.ClientID {
		return nil
	}
	return fmt.Errorf("%w: token not issued for client %s", ErrTokenInvalid, v.cfg.ClientID)
}
