package orderservice

type OrderItemRequest struct {
	ProductID int64 `json:"product_id"` //nolint:tagliatelle
	Quantity  int   `json:"quantity"`
}

type CreateOrderRequest struct {
	Actor        string
	CustomerName string
	Phone        string
	Address      string
	Items        []OrderItemRequest
}

type AssignCourierRequest struct {
	Actor       string
	OrderID     int64
	CourierName string
	Phone       string
}
