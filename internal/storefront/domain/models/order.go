package models

import (
	"time"
)

const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// orderRank orders the forward statuses; cancelled sits outside the chain.
var orderRank = map[string]int{
	OrderPending:   0,
	OrderConfirmed: 1,
	OrderShipped:   2,
	OrderDelivered: 3,
}

func ValidOrderStatus(status string) bool {
	if status == OrderCancelled {
		return true
	}

	_, ok := orderRank[status]

	return ok
}

// CanTransition reports whether an order may move from one status to
// another: forward along the chain, or to cancelled from any
// non-terminal status. Delivered and cancelled are terminal.
func CanTransition(from, to string) bool {
	if from == OrderDelivered || from == OrderCancelled {
		return false
	}

	if to == OrderCancelled {
		return true
	}

	fromRank, okF := orderRank[from]
	toRank, okT := orderRank[to]

	return okF && okT && toRank > fromRank
}

type OrderItem struct {
	ProductID      int64  `json:"product_id"` //nolint:tagliatelle
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"` //nolint:tagliatelle
	Quantity       int    `json:"quantity"`
}

type Order struct {
	ID           int64       `json:"order_id"` //nolint:tagliatelle
	CustomerName string      `json:"customer_name"` //nolint:tagliatelle
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	Items        []OrderItem `json:"items"`
	TotalCents   int64       `json:"total_cents"` //nolint:tagliatelle
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"` //nolint:tagliatelle
	UpdatedAt    time.Time   `json:"updated_at"` //nolint:tagliatelle
}

const (
	CourierAssigned = "assigned"
	CourierPickedUp = "picked_up"
	CourierDone     = "done"
)

type CourierTask struct {
	ID          int64     `json:"courier_task_id"` //nolint:tagliatelle
	OrderID     int64     `json:"order_id"`        //nolint:tagliatelle
	CourierName string    `json:"courier_name"`    //nolint:tagliatelle
	Phone       string    `json:"phone"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"` //nolint:tagliatelle
	UpdatedAt   time.Time `json:"updated_at"` //nolint:tagliatelle
}
