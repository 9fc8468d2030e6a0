package orders

import (
	"context"

	"github.com/google/uuid"
)

// Service is the order domain behind the authorization pipeline. The order
// business logic is an external collaborator; this implementation returns
// canned data so the authorization surface can be exercised end to end.
type Service interface {
	GetOrder(ctx context.Context, companyID, orderID string) (*Order, error)
	ListOrders(ctx context.Context, companyID string) ([]*Order, error)
	CreateOrder(ctx context.Context, companyID string) (*Order, error)
}

type service struct{}

func NewService() Service {
	return &service{}
}

func (s *service) GetOrder(_ context.Context, companyID, orderID string) (*Order, error) {
	return &Order{
		OrderID:     orderID,
		CompanyID:   companyID,
		OrderStatus: OrderStatusPending,
	}, nil
}

func (s *service) ListOrders(_ context.Context, companyID string) ([]*Order, error) {
	return []*Order{
		{
			OrderID:     uuid.NewString(),
			CompanyID:   companyID,
			OrderStatus: OrderStatusPending,
		},
		{
			OrderID:     uuid.NewString(),
			CompanyID:   companyID,
			OrderStatus: OrderStatusPending,
		},
	}, nil
}

func (s *service) CreateOrder(_ context.Context, companyID string) (*Order, error) {
	return &Order{
		OrderID:     uuid.NewString(),
		CompanyID:   companyID,
		OrderStatus: OrderStatusPending,
	}, nil
}
