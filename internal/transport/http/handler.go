package http

import (
	"net/http"

	"log/slog"

	appauthz "github.com/orderhub/authz-gateway/internal/app/authz"
	"github.com/orderhub/authz-gateway/internal/config"
	"github.com/orderhub/authz-gateway/internal/domain/authz"
	"github.com/orderhub/authz-gateway/internal/domain/policy"
	"github.com/orderhub/authz-gateway/pkg/logger"
	"github.com/orderhub/authz-gateway/pkg/tracer"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// Context headers returned to the fronting gateway on an allow decision.
const (
	headerUserID        = "x-user-id"
	headerUserRole      = "x-user-role"
	headerUserCompanies = "x-user-companies"
)

// Resource headers a fronting gateway uses to forward the target resource to
// the authorizer endpoint.
const (
	headerResourceCompanyID = "X-Resource-Company-Id"
	headerResourceUserID    = "X-Resource-User-Id"
)

// Handler serves the standalone pre-flight authorizer endpoint: a fronting
// gateway sends the original bearer token plus the target resource identity
// and gets a cached, TTL-bounded allow/deny back.
type Handler struct {
	appService appauthz.Service
	cfg        *config.Config
	endpoint   policy.EndpointPolicy
}

func NewHandler(appService appauthz.Service, cfg *config.Config) *Handler {
	return &Handler{
		appService: appService,
		cfg:        cfg,
		endpoint: policy.EndpointPolicy{
			RequireCompany: true,
			RequiredRole:   cfg.Auth.RequiredRole,
		},
	}
}

func (h *Handler) Check(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.Check")
	defer span.End()

	resource := resourceFromHeaders(c)

	// When the fronting gateway forwards the target user, the token subject
	// must match it, same as the user-scoped routes behind the in-line
	// middleware.
	endpoint := h.endpoint
	if resource.UserID != "" {
		endpoint.SelfField = "user_id"
	}

	in := authz.Input{
		Token:    bearerToken(c),
		Resource: resource,
		Endpoint: endpoint,
	}

	decision, err := h.appService.Check(ctx, in, h.cfg.Auth.DecisionCacheTTL)
	if err != nil {
		span.RecordError(err)
		logger.ErrorContext(ctx, "failed to check authorization", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if !decision.Allow {
		span.SetAttributes(
			attribute.Bool("authz.allowed", false),
			attribute.String("authz.reason", string(decision.Reason)),
		)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	span.SetAttributes(attribute.Bool("authz.allowed", true))

	c.Header(headerUserID, decision.Context[policy.ContextKeyID])
	c.Header(headerUserRole, decision.Context[policy.ContextKeyRole])
	c.Header(headerUserCompanies, decision.Context[policy.ContextKeyCompanies])

	c.Status(http.StatusOK)
}

func resourceFromHeaders(c *gin.Context) policy.ResourceRequest {
	companyID := c.GetHeader(headerResourceCompanyID)
	if companyID == "" {
		companyID = c.Query("company_id")
	}
	userID := c.GetHeader(headerResourceUserID)
	if userID == "" {
		userID = c.Query("user_id")
	}

	params := make(map[string]string)
	if companyID != "" {
		params["company_id"] = companyID
	}
	if userID != "" {
		params["user_id"] = userID
	}

	return policy.ResourceRequest{
		CompanyID: companyID,
		UserID:    userID,
		Params:    params,
	}
}
