package orderservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/softcart/storefront_control/internal/pkg/apperrors"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
	"github.com/softcart/storefront_control/pkg/logger"
)

const resourceOrder = "order"

type OrderService struct {
	orderRepo Repository
	catalog   Catalog
	audit     Audit
	lg        logger.Logger
}

type Repository interface {
	CreateOrder(context.Context, models.Order) (int64, error)
	GetOrder(context.Context, int64) (models.Order, error)
	ListOrders(context.Context, string) ([]models.Order, error)
	UpdateStatus(context.Context, int64, string) error
	UpsertCourier(context.Context, models.CourierTask) (int64, error)
	GetCourier(context.Context, int64) (models.CourierTask, error)
	DeleteOrder(context.Context, int64) (models.Order, bool, error)
	Shutdown(context.Context) error
}

// Catalog resolves product names and prices at order time, so an order
// keeps the price the customer saw even if the product changes later.
type Catalog interface {
	GetProduct(context.Context, int64) (models.Product, error)
}

type Audit interface {
	Record(context.Context, models.AuditEntry) error
}

func New(orderRepo Repository, catalog Catalog, audit Audit, lg logger.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		catalog:   catalog,
		audit:     audit,
		lg:        lg,
	}
}

func (os *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (models.Order, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Address = strings.TrimSpace(req.Address)

	var msgs []string

	if req.CustomerName == "" {
		msgs = append(msgs, "customer name must not be empty")
	}

	if req.Phone == "" {
		msgs = append(msgs, "phone must not be empty")
	}

	if req.Address == "" {
		msgs = append(msgs, "address must not be empty")
	}

	if len(req.Items) == 0 {
		msgs = append(msgs, "items must not be empty")
	}

	for _, item := range req.Items {
		if item.Quantity < 1 {
			msgs = append(msgs, fmt.Sprintf("quantity for product %d must be at least 1", item.ProductID))
		}
	}

	if len(msgs) != 0 {
		return models.Order{}, apperrors.NewValidation(msgs)
	}

	items := make([]models.OrderItem, 0, len(req.Items))

	var total int64

	for _, item := range req.Items {
		p, err := os.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return models.Order{}, apperrors.NewValidation(
					[]string{fmt.Sprintf("product %d does not exist", item.ProductID)})
			}

			return models.Order{}, fmt.Errorf("get product error: %w", err)
		}

		items = append(items, models.OrderItem{
			ProductID:      p.ID,
			Name:           p.Name,
			UnitPriceCents: p.PriceCents,
			Quantity:       item.Quantity,
		})
		total += p.PriceCents * int64(item.Quantity)
	}

	now := time.Now()
	o := models.Order{ //nolint:exhaustruct
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		Items:        items,
		TotalCents:   total,
		Status:       models.OrderPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := os.orderRepo.CreateOrder(ctx, o)
	if err != nil {
		return models.Order{}, fmt.Errorf("create order error: %w", err)
	}

	o.ID = id

	os.recordAudit(ctx, req.Actor, models.ActionCreate, id, map[string]interface{}{
		"total_cents": o.TotalCents,
		"items":       len(o.Items),
	})

	return o, nil
}

func (os *OrderService) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	o, err := os.orderRepo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.Order{}, apperrors.ErrNotFound
		}

		return models.Order{}, fmt.Errorf("get order error: %w", err)
	}

	return o, nil
}

func (os *OrderService) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, apperrors.NewValidation([]string{"unknown order status " + status})
	}

	orders, err := os.orderRepo.ListOrders(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list orders error: %w", err)
	}

	return orders, nil
}

func (os *OrderService) UpdateStatus(ctx context.Context, actor string, id int64, status string) error {
	if !models.ValidOrderStatus(status) {
		return apperrors.NewValidation([]string{"unknown order status " + status})
	}

	o, err := os.orderRepo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}

		return fmt.Errorf("get order error: %w", err)
	}

	if !models.CanTransition(o.Status, status) {
		return apperrors.NewConflict(
			fmt.Sprintf("order cannot move from %s to %s", o.Status, status))
	}

	if err := os.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update status error: %w", err)
	}

	os.recordAudit(ctx, actor, models.ActionUpdate, id, map[string]interface{}{
		"from": o.Status,
		"to":   status,
	})

	return nil
}

func (os *OrderService) AssignCourier(ctx context.Context, req AssignCourierRequest) (models.CourierTask, error) {
	req.CourierName = strings.TrimSpace(req.CourierName)
	req.Phone = strings.TrimSpace(req.Phone)

	var msgs []string

	if req.CourierName == "" {
		msgs = append(msgs, "courier name must not be empty")
	}

	if req.Phone == "" {
		msgs = append(msgs, "phone must not be empty")
	}

	if len(msgs) != 0 {
		return models.CourierTask{}, apperrors.NewValidation(msgs)
	}

	if _, err := os.orderRepo.GetOrder(ctx, req.OrderID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.CourierTask{}, apperrors.ErrNotFound
		}

		return models.CourierTask{}, fmt.Errorf("get order error: %w", err)
	}

	now := time.Now()
	task := models.CourierTask{ //nolint:exhaustruct
		OrderID:     req.OrderID,
		CourierName: req.CourierName,
		Phone:       req.Phone,
		Status:      models.CourierAssigned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := os.orderRepo.UpsertCourier(ctx, task)
	if err != nil {
		return models.CourierTask{}, fmt.Errorf("upsert courier error: %w", err)
	}

	task.ID = id

	os.recordAudit(ctx, req.Actor, models.ActionUpdate, req.OrderID, map[string]interface{}{
		"courier": task.CourierName,
	})

	return task, nil
}

// DeleteOrder removes the order along with its courier task; the
// repository performs both deletes in a single transaction.
func (os *OrderService) DeleteOrder(ctx context.Context, actor string, id int64) error {
	o, hadCourier, err := os.orderRepo.DeleteOrder(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}

		return fmt.Errorf("delete order error: %w", err)
	}

	os.recordAudit(ctx, actor, models.ActionDelete, id, map[string]interface{}{
		"status":      o.Status,
		"total_cents": o.TotalCents,
		"had_courier": hadCourier,
	})

	return nil
}

func (os *OrderService) Shutdown(ctx context.Context) error {
	if err := os.orderRepo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown order repo error: %w", err)
	}

	return nil
}

func (os *OrderService) recordAudit(ctx context.Context, actor, action string, id int64, metadata map[string]interface{}) {
	entry := models.AuditEntry{
		ID:         uuid.NewString(),
		Actor:      actor,
		Action:     action,
		Resource:   resourceOrder,
		ResourceID: strconv.FormatInt(id, 10),
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	}

	if err := os.audit.Record(ctx, entry); err != nil {
		os.lg.Errorf("audit record error: %s", err.Error())
	}
}
