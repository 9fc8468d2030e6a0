package http

import (
	"net/http"

	appauthz "github.com/orderhub/authz-gateway/internal/app/authz"
	"github.com/orderhub/authz-gateway/internal/config"
	"github.com/orderhub/authz-gateway/internal/domain/policy"
	ordershandler "github.com/orderhub/authz-gateway/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(
	handler *Handler,
	orders *ordershandler.OrdersHandler,
	appService appauthz.Service,
	cfg *config.Config,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	if cfg.Observability.TraceEnabled {
		router.Use(otelgin.Middleware(serviceName))
	}
	router.Use(loggingMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	// Standalone authorizer endpoint for gateway-style deployments.
	router.Any("/authorize/*path", handler.Check)

	// Internal surface: the caller acts on their own orders within a company
	// they belong to, holding the configured role.
	userPolicy := policy.EndpointPolicy{
		SelfField:      "user_id",
		RequireCompany: true,
		RequiredRole:   cfg.Auth.RequiredRole,
	}
	internal := router.Group("/companies/:company_id/users/:user_id",
		Authorize(appService, userPolicy))
	internal.GET("/orders", orders.ListOrders)
	internal.GET("/orders/:id", orders.GetOrder)
	internal.POST("/orders", orders.CreateOrder)

	// Partner surface: the token subject is the company id itself.
	clientPolicy := policy.EndpointPolicy{
		SelfField: "company_id",
	}
	router.GET("/clients/:company_id/orders/:id",
		Authorize(appService, clientPolicy), orders.GetClientOrder)

	return router
}
