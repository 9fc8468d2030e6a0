package authz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"log/slog"

	"github.com/orderhub/authz-gateway/internal/domain/authz"
	"github.com/orderhub/authz-gateway/internal/domain/policy"
	"github.com/orderhub/authz-gateway/internal/infra/cache"
	"github.com/orderhub/authz-gateway/pkg/logger"
	"github.com/orderhub/authz-gateway/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Service is the application surface over the authorization pipeline.
// Authorize runs the pipeline directly (in-line middleware deployment);
// Check fronts it with the gateway decision cache (custom authorizer
// deployment).
type Service interface {
	Authorize(ctx context.Context, in authz.Input) (*policy.Decision, error)
	Check(ctx context.Context, in authz.Input, cacheTTL time.Duration) (*policy.Decision, error)
}

type service struct {
	pipeline      authz.Service
	decisionCache cache.DecisionCache
}

func NewService(pipeline authz.Service, decisionCache cache.DecisionCache) Service {
	return &service{
		pipeline:      pipeline,
		decisionCache: decisionCache,
	}
}

func (s *service) Authorize(ctx context.Context, in authz.Input) (*policy.Decision, error) {
	ctx, span := tracer.Start(ctx, "app.authz.Authorize")
	defer span.End()

	span.SetAttributes(
		attribute.String("token.prefix", tokenPrefix(in.Token)),
	)

	decision, err := s.pipeline.Authorize(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	recordDecision(span, decision)
	return decision, nil
}

func (s *service) Check(ctx context.Context, in authz.Input, cacheTTL time.Duration) (*policy.Decision, error) {
	ctx, span := tracer.Start(ctx, "app.authz.Check")
	defer span.End()

	span.SetAttributes(
		attribute.String("token.prefix", tokenPrefix(in.Token)),
	)

	tokenHash := hashToken(normalizeToken(in.Token))

	cached, err := s.decisionCache.Get(ctx, tokenHash)
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		logger.WarnContext(ctx, "failed to get from decision cache, running pipeline",
			slog.String("error", err.Error()))
	}

	if err == nil && cached != nil {
		span.SetAttributes(attribute.Bool("authz.cache_hit", true))
		decision := decisionFromCache(cached)
		recordDecision(span, decision)
		return decision, nil
	}

	decision, err := s.pipeline.Authorize(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if setErr := s.decisionCache.Set(ctx, tokenHash, cacheDecision(decision), cacheTTL); setErr != nil {
		logger.WarnContext(ctx, "failed to set decision cache",
			slog.String("error", setErr.Error()))
	}

	recordDecision(span, decision)
	return decision, nil
}

func decisionFromCache(cached *cache.CachedDecision) *policy.Decision {
	return &policy.Decision{
		Allow:   cached.Allow,
		Reason:  policy.Reason(cached.Reason),
		Context: cached.Context,
	}
}

func cacheDecision(decision *policy.Decision) *cache.CachedDecision {
	return &cache.CachedDecision{
		Allow:   decision.Allow,
		Reason:  string(decision.Reason),
		Context: decision.Context,
	}
}

func recordDecision(span trace.Span, decision *policy.Decision) {
	if decision.Allow {
		span.SetAttributes(attribute.Bool("authz.allowed", true))
	} else {
		span.SetAttributes(
			attribute.Bool("authz.allowed", false),
			attribute.String("authz.reason", string(decision.Reason)),
		)
	}
}

// normalizeToken strips the Bearer prefix so cache keys do not depend on how
// the caller passed the header value.
func normalizeToken(raw string) string {
	raw = strings.TrimPrefix(raw, "Bearer ")
	return strings.TrimSpace(raw)
}

func hashToken(raw string) string {
	hash := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(hash[:])
}

const tokenPrefixLength = 8

func tokenPrefix(raw string) string {
	if len(raw) > tokenPrefixLength {
		return raw[:tokenPrefixLength] + "..."
	}
	return "***"
}
