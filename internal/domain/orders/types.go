package orders

// OrderStatusPending is the only status the stubbed order domain produces.
const OrderStatusPending = "PENDING"

type Order struct {
	OrderID     string `json:"orderId"`
	CompanyID   string `json:"companyId"`
	OrderStatus string `json:"orderStatus"`
}
