package orders

import (
	"context"
	"log/slog"

	ordersdomain "github.com/orderhub/authz-gateway/internal/domain/orders"
	"github.com/orderhub/authz-gateway/pkg/logger"
	"github.com/orderhub/authz-gateway/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

type CommandService struct {
	domainService ordersdomain.Service
}

func NewCommandService(domainService ordersdomain.Service) *CommandService {
	return &CommandService{
		domainService: domainService,
	}
}

func (s *CommandService) CreateOrder(ctx context.Context, companyID string) (*ordersdomain.Order, error) {
	ctx, span := tracer.Start(ctx, "app.orders.CreateOrder")
	defer span.End()

	span.SetAttributes(attribute.String("order.company_id", companyID))

	order, err := s.domainService.CreateOrder(ctx, companyID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("order.id", order.OrderID))
	logger.InfoContext(ctx, "order created",
		slog.String("company_id", companyID),
		slog.String("order_id", order.OrderID),
	)

	return order, nil
}
