package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/softcart/storefront_control/internal/pkg/apperrors"
	"github.com/softcart/storefront_control/internal/pkg/config"
	"github.com/softcart/storefront_control/internal/pkg/pgtools"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
)

type OrdersPostgresRepo struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, cfg config.PostgresDB) (OrdersPostgresRepo, error) {
	db, err := pgtools.Connect(ctx, cfg.ConnString())
	if err != nil {
		return OrdersPostgresRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	return OrdersPostgresRepo{
		db: db,
	}, nil
}

var orderColumns = []string{
	"id", "customer_name", "phone", "address", "items", "total_cents",
	"status", "created_at", "updated_at",
}

func (or OrdersPostgresRepo) CreateOrder(ctx context.Context, o models.Order) (id int64, err error) { //nolint:nonamedreturns
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return 0, fmt.Errorf("marshal items error: %w", err)
	}

	tx, err := or.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create order")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("orders").
		Columns("customer_name", "phone", "address", "items", "total_cents",
			"status", "created_at", "updated_at").
		Values(o.CustomerName, o.Phone, o.Address, itemsJSON, o.TotalCents,
			o.Status, o.CreatedAt, o.UpdatedAt).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (or OrdersPostgresRepo) GetOrder(ctx context.Context, id int64) (o models.Order, err error) { //nolint:nonamedreturns
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get order")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Order{}, fmt.Errorf("to sql error: %w", err)
	}

	o, err = scanOrder(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Order{}, err
	}

	return o, nil
}

func (or OrdersPostgresRepo) ListOrders(ctx context.Context, status string) (orders []models.Order, err error) { //nolint:nonamedreturns
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list orders")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sb := psql.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC")

	if status != "" {
		sb = sb.Where(squirrel.Eq{"status": status})
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	orders = make([]models.Order, 0, 10) //nolint:gomnd

	for rows.Next() {
		o, errS := scanOrder(rows)
		if errS != nil {
			return nil, errS
		}

		orders = append(orders, o)
	}

	return orders, nil
}

func (or OrdersPostgresRepo) UpdateStatus(ctx context.Context, id int64, status string) (err error) { //nolint:nonamedreturns
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update status")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("orders").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// UpsertCourier creates the order's courier task or replaces the
// existing one; an order has at most one task.
func (or OrdersPostgresRepo) UpsertCourier(ctx context.Context, task models.CourierTask) (id int64, err error) { //nolint:nonamedreturns
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "upsert courier")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("courier_tasks").
		Columns("order_id", "courier_name", "phone", "status", "created_at", "updated_at").
		Values(task.OrderID, task.CourierName, task.Phone, task.Status, task.CreatedAt, task.UpdatedAt).
		Suffix("ON CONFLICT (order_id) DO UPDATE SET " +
			"courier_name = EXCLUDED.courier_name, phone = EXCLUDED.phone, " +
			"status = EXCLUDED.status, updated_at = EXCLUDED.updated_at " +
			"RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (or OrdersPostgresRepo) GetCourier(ctx context.Context, orderID int64) (task models.CourierTask, err error) { //nolint:nonamedreturns
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return models.CourierTask{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get courier")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id", "order_id", "courier_name", "phone",
		"status", "created_at", "updated_at").
		From("courier_tasks").
		Where(squirrel.Eq{"order_id": orderID}).ToSql()
	if err != nil {
		return models.CourierTask{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&task.ID, &task.OrderID,
		&task.CourierName, &task.Phone, &task.Status, &task.CreatedAt, &task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CourierTask{}, apperrors.ErrNotFound
		}

		return models.CourierTask{}, fmt.Errorf("scan error: %w", err)
	}

	return task, nil
}

// DeleteOrder removes the order together with its courier task in one
// transaction. The snapshot is returned for the audit trail.
func (or OrdersPostgresRepo) DeleteOrder(ctx context.Context, //nolint:nonamedreturns
	id int64,
) (o models.Order, hadCourier bool, err error) {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return models.Order{}, false, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete order")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("courier_tasks").
		Where(squirrel.Eq{"order_id": id}).ToSql()
	if err != nil {
		return models.Order{}, false, fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return models.Order{}, false, fmt.Errorf("exec error: %w", err)
	}

	hadCourier = ct.RowsAffected() != 0

	query, args, err = psql.Delete("orders").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, customer_name, phone, address, items, total_cents, " +
			"status, created_at, updated_at").ToSql()
	if err != nil {
		return models.Order{}, false, fmt.Errorf("to sql error: %w", err)
	}

	o, err = scanOrder(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Order{}, false, err
	}

	return o, hadCourier, nil
}

func (or OrdersPostgresRepo) Shutdown(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		or.db.Close()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case <-done:
		return nil
	}
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var (
		o         models.Order
		itemsJSON []byte
	)

	err := row.Scan(&o.ID, &o.CustomerName, &o.Phone, &o.Address,
		&itemsJSON, &o.TotalCents, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, apperrors.ErrNotFound
		}

		return models.Order{}, fmt.Errorf("scan error: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return models.Order{}, fmt.Errorf("unmarshal error: %w", err)
	}

	return o, nil
}
