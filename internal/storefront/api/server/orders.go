package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/softcart/storefront_control/internal/storefront/services/orderservice"
)

type createOrderBody struct {
	CustomerName string                          `json:"customer_name"` //nolint:tagliatelle
	Phone        string                          `json:"phone"`
	Address      string                          `json:"address"`
	Items        []orderservice.OrderItemRequest `json:"items"`
}

type orderStatusBody struct {
	Status string `json:"status"`
}

type assignCourierBody struct {
	CourierName string `json:"courier_name"` //nolint:tagliatelle
	Phone       string `json:"phone"`
}

// Оформление заказа с витрины
// (POST /storefront/orders).
func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	var b createOrderBody

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	req := orderservice.CreateOrderRequest{
		Actor:        b.CustomerName,
		CustomerName: b.CustomerName,
		Phone:        b.Phone,
		Address:      b.Address,
		Items:        b.Items,
	}

	o, err := s.orderService.CreateOrder(r.Context(), req)
	if err != nil {
		s.respondError(w, err)

		return
	}

	bts, err := json.Marshal(CreateOrderResponse{OrderID: o.ID, TotalCents: o.TotalCents})
	if err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write(bts) //nolint:errcheck
}

// Список заказов с фильтром по статусу
// (GET /orders).
func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	orders, err := s.orderService.ListOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(orders); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Карточка заказа
// (GET /orders/{id}).
func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	id, err := idFromURL(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	o, err := s.orderService.GetOrder(r.Context(), id)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(o); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Перевод заказа по статусной цепочке
// (PATCH /orders/{id}/status).
func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	id, err := idFromURL(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	var b orderStatusBody

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	if err := s.orderService.UpdateStatus(r.Context(), principalFrom(r.Context()).Username, id, b.Status); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusOK)
}

// Назначение либо замена курьера по заказу
// (POST /orders/{id}/courier).
func (s *Server) assignCourier(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	id, err := idFromURL(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	var b assignCourierBody

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&b); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	req := orderservice.AssignCourierRequest{
		Actor:       principalFrom(r.Context()).Username,
		OrderID:     id,
		CourierName: b.CourierName,
		Phone:       b.Phone,
	}

	task, err := s.orderService.AssignCourier(r.Context(), req)
	if err != nil {
		s.respondError(w, err)

		return
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(task); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Удаление заказа вместе с курьерской задачей
// (DELETE /orders/{id}).
func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	id, err := idFromURL(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	if err := s.orderService.DeleteOrder(r.Context(), principalFrom(r.Context()).Username, id); err != nil {
		s.respondError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
