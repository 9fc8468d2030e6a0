package authz

import (
	"context"
	"errors"
	"strings"

	"log/slog"

	"github.com/google/uuid"
	"github.com/orderhub/authz-gateway/internal/domain/policy"
	"github.com/orderhub/authz-gateway/internal/domain/token"
	"github.com/orderhub/authz-gateway/internal/infra/permissions"
	"github.com/orderhub/authz-gateway/pkg/logger"
)

// Service runs the authorization pipeline: bearer token extraction, token
// verification, permission hydration and policy evaluation, in that order,
// short-circuiting on the first failing stage. Internal failure causes are
// logged with a correlation id and never surface past the returned Decision.
type Service interface {
	Authorize(ctx context.Context, in Input) (*policy.Decision, error)
}

type stage func(ctx context.Context, req *request) (*policy.Decision, error)

type service struct {
	verifier token.Verifier
	resolver permissions.Resolver
	stages   []stage
}

func NewService(verifier token.Verifier, resolver permissions.Resolver) Service {
	s := &service{
		verifier: verifier,
		resolver: resolver,
	}
	s.stages = []stage{
		s.extractToken,
		s.verifyToken,
		s.hydratePermissions,
		s.evaluatePolicy,
	}
	return s
}

func (s *service) Authorize(ctx context.Context, in Input) (*policy.Decision, error) {
	req := &request{
		correlationID: uuid.NewString(),
		raw:           in.Token,
		resource:      in.Resource,
		endpoint:      in.Endpoint,
	}

	for _, st := range s.stages {
		decision, err := st(ctx, req)
		if err != nil {
			logger.ErrorContext(ctx, "authorization pipeline failed",
				slog.String("correlation_id", req.correlationID),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		if decision != nil {
			return decision, nil
		}
	}

	return nil, errors.New("authorization pipeline produced no decision")
}

func (s *service) extractToken(ctx context.Context, req *request) (*policy.Decision, error) {
	raw := strings.TrimPrefix(req.raw, "Bearer ")
	raw = strings.TrimSpace(raw)

	if raw == "" {
		logger.WarnContext(ctx, "authorization token not found",
			slog.String("correlation_id", req.correlationID),
		)
		return policy.Denied(policy.ReasonMissingToken), nil
	}

	req.raw = raw
	return nil, nil
}

func (s *service) verifyToken(ctx context.Context, req *request) (*policy.Decision, error) {
	principal, err := s.verifier.Verify(ctx, req.raw)
	if err != nil {
		logger.WarnContext(ctx, "token verification failed",
			slog.String("correlation_id", req.correlationID),
			slog.String("error", err.Error()),
		)
		return policy.Denied(policy.ReasonTokenInvalid), nil
	}

	req.principal = principal
	return nil, nil
}

func (s *service) hydratePermissions(ctx context.Context, req *request) (*policy.Decision, error) {
	record, err := s.resolver.Resolve(ctx, req.principal.ID)
	if err != nil {
		logger.WarnContext(ctx, "permission hydration failed",
			slog.String("correlation_id", req.correlationID),
			slog.String("principal_id", req.principal.ID),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, permissions.ErrNotFound) {
			return policy.Denied(policy.ReasonPermissionNotFound), nil
		}
		return policy.Denied(policy.ReasonPermissionLookupFailed), nil
	}

	req.record = record
	return nil, nil
}

func (s *service) evaluatePolicy(ctx context.Context, req *request) (*policy.Decision, error) {
	decision := policy.Evaluate(req.principal, req.record, req.resource, req.endpoint)

	if !decision.Allow {
		logger.WarnContext(ctx, "access denied by policy",
			slog.String("correlation_id", req.correlationID),
			slog.String("principal_id", req.principal.ID),
			slog.String("reason", string(decision.Reason)),
		)
	} else {
		logger.InfoContext(ctx, "access allowed",
			slog.String("correlation_id", req.correlationID),
			slog.String("principal_id", req.principal.ID),
		)
	}

	return decision, nil
}
