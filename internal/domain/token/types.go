package token

import "time"

// TokenUseAccess is the only token-use class accepted by the verifier.
const TokenUseAccess = "access"

// Principal is the authenticated identity derived from a verified token.
// Immutable once parsed; lives for one request.
type Principal struct {
	ID        string
	TokenUse  string
	ExpiresAt time.Time
}
