package orders

import (
	"context"
	"log/slog"

	ordersdomain "github.com/orderhub/authz-gateway/internal/domain/orders"
	"github.com/orderhub/authz-gateway/pkg/logger"
	"github.com/orderhub/authz-gateway/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

type QueryService struct {
	domainService ordersdomain.Service
}

func NewQueryService(domainService ordersdomain.Service) *QueryService {
	return &QueryService{
		domainService: domainService,
	}
}

func (s *QueryService) GetOrder(ctx context.Context, companyID, orderID string) (*ordersdomain.Order, error) {
	ctx, span := tracer.Start(ctx, "app.orders.GetOrder")
	defer span.End()

	span.SetAttributes(
		attribute.String("order.company_id", companyID),
		attribute.String("order.id", orderID),
	)

	order, err := s.domainService.GetOrder(ctx, companyID, orderID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	logger.InfoContext(ctx, "order fetched",
		slog.String("company_id", companyID),
		slog.String("order_id", orderID),
	)

	return order, nil
}

func (s *QueryService) ListOrders(ctx context.Context, companyID string) ([]*ordersdomain.Order, error) {
	ctx, span := tracer.Start(ctx, "app.orders.ListOrders")
	defer span.End()

	span.SetAttributes(attribute.String("order.company_id", companyID))

	list, err := s.domainService.ListOrders(ctx, companyID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("order.count", len(list)))
	logger.InfoContext(ctx, "orders listed",
		slog.String("company_id", companyID),
		slog.Int("count", len(list)),
	)

	return list, nil
}
