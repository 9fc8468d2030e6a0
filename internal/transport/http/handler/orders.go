package handler

import (
	"net/http"

	"log/slog"

	appordrs "github.com/orderhub/authz-gateway/internal/app/orders"
	"github.com/orderhub/authz-gateway/internal/domain/authz"
	"github.com/orderhub/authz-gateway/pkg/logger"
	"github.com/gin-gonic/gin"
)

// OrdersHandler serves the order endpoints sitting behind the authorization
// middleware. Handlers trust the enriched user placed on the request context
// by the pipeline.
type OrdersHandler struct {
	queries  *appordrs.QueryService
	commands *appordrs.CommandService
}

func NewOrdersHandler(queries *appordrs.QueryService, commands *appordrs.CommandService) *OrdersHandler {
	return &OrdersHandler{
		queries:  queries,
		commands: commands,
	}
}

func (h *OrdersHandler) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.Param("company_id")

	logRequestUser(c, "listing orders")

	list, err := h.queries.ListOrders(ctx, companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *OrdersHandler) GetOrder(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.Param("company_id")
	orderID := c.Param("id")

	logRequestUser(c, "fetching order")

	order, err := h.queries.GetOrder(ctx, companyID, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.Param("company_id")

	logRequestUser(c, "creating order")

	order, err := h.commands.CreateOrder(ctx, companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred"})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetClientOrder is the partner-facing variant: the token subject is the
// company itself, so no permission record context is attached.
func (h *OrdersHandler) GetClientOrder(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.Param("company_id")
	orderID := c.Param("id")

	order, err := h.queries.GetOrder(ctx, companyID, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func logRequestUser(c *gin.Context, msg string) {
	if user, ok := authz.UserFromContext(c.Request.Context()); ok {
		logger.InfoContext(c.Request.Context(), msg,
			slog.String("user_id", user.ID),
			slog.String("role", user.Role),
		)
	}
}
