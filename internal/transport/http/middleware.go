package http

import (
	"net/http"
	"time"

	"log/slog"

	appauthz "github.com/orderhub/authz-gateway/internal/app/authz"
	"github.com/orderhub/authz-gateway/internal/domain/authz"
	"github.com/orderhub/authz-gateway/internal/domain/policy"
	"github.com/orderhub/authz-gateway/pkg/logger"
	"github.com/gin-gonic/gin"
)

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		if status >= 500 {
			logger.ErrorContext(c.Request.Context(), "request failed",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", status),
				slog.Duration("duration", duration),
			)
		} else {
			logger.InfoContext(c.Request.Context(), "request completed",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", status),
				slog.Duration("duration", duration),
			)
		}
	}
}

// Authorize runs the authorization pipeline in-line for the endpoint it
// guards. Every deny collapses to an opaque 401; the authorized user is
// injected into the request context for downstream handlers.
func Authorize(appService appauthz.Service, endpoint policy.EndpointPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := authz.Input{
			Token:    bearerToken(c),
			Resource: resourceFromParams(c.Params),
			Endpoint: endpoint,
		}

		decision, err := appService.Authorize(c.Request.Context(), in)
		if err != nil {
			logger.ErrorContext(c.Request.Context(), "authorization failed",
				slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		if !decision.Allow {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ctx := authz.ContextWithUser(c.Request.Context(), authz.UserFromDecision(decision.Context))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		authHeader = c.GetHeader("authorization")
	}
	return authHeader
}

func resourceFromParams(params gin.Params) policy.ResourceRequest {
	m := make(map[string]string, len(params))
	for _, p := range params {
		m[p.Key] = p.Value
	}
	return policy.ResourceRequest{
		CompanyID: m["company_id"],
		UserID:    m["user_id"],
		Params:    m,
	}
}
