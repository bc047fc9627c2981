package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/softcart/storefront_control/internal/pkg/apperrors"
	"github.com/softcart/storefront_control/internal/pkg/config"
	"github.com/softcart/storefront_control/internal/pkg/pgtools"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
)

// CatalogPostgresRepo stores products and promotional events.
type CatalogPostgresRepo struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, cfg config.PostgresDB) (CatalogPostgresRepo, error) {
	db, err := pgtools.Connect(ctx, cfg.ConnString())
	if err != nil {
		return CatalogPostgresRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	return CatalogPostgresRepo{
		db: db,
	}, nil
}

var productColumns = []string{
	"id", "name", "slug", "description", "price_cents", "image_url",
	"stock", "is_published", "created_at", "updated_at",
}

func (cr CatalogPostgresRepo) CreateProduct(ctx context.Context, p models.Product) (id int64, err error) { //nolint:nonamedreturns
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create product")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("products").
		Columns("name", "slug", "description", "price_cents", "image_url",
			"stock", "is_published", "created_at", "updated_at").
		Values(p.Name, p.Slug, p.Description, p.PriceCents, p.ImageURL,
			p.Stock, p.Published, p.CreatedAt, p.UpdatedAt).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		target := new(pgconn.PgError)
		if errors.As(err, &target) && target.Code == "23505" {
			return 0, apperrors.NewConflict("slug already in use")
		}

		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (cr CatalogPostgresRepo) UpdateProduct(ctx context.Context, p models.Product) (err error) { //nolint:nonamedreturns
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update product")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("products").
		Set("name", p.Name).
		Set("slug", p.Slug).
		Set("description", p.Description).
		Set("price_cents", p.PriceCents).
		Set("image_url", p.ImageURL).
		Set("stock", p.Stock).
		Set("is_published", p.Published).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"id": p.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		target := new(pgconn.PgError)
		if errors.As(err, &target) && target.Code == "23505" {
			return apperrors.NewConflict("slug already in use")
		}

		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (cr CatalogPostgresRepo) DeleteProduct(ctx context.Context, id int64) (p models.Product, err error) { //nolint:nonamedreturns
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return models.Product{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete product")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("products").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, name, slug, description, price_cents, image_url, " +
			"stock, is_published, created_at, updated_at").ToSql()
	if err != nil {
		return models.Product{}, fmt.Errorf("to sql error: %w", err)
	}

	p, err = scanProduct(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Product{}, err
	}

	return p, nil
}

func (cr CatalogPostgresRepo) GetProduct(ctx context.Context, id int64) (p models.Product, err error) { //nolint:nonamedreturns
	return cr.getProduct(ctx, squirrel.Eq{"id": id})
}

func (cr CatalogPostgresRepo) GetProductBySlug(ctx context.Context, slug string) (models.Product, error) {
	return cr.getProduct(ctx, squirrel.Eq{"slug": slug})
}

func (cr CatalogPostgresRepo) getProduct(ctx context.Context, where squirrel.Eq) (p models.Product, err error) { //nolint:nonamedreturns
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return models.Product{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get product")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select(productColumns...).
		From("products").
		Where(where).ToSql()
	if err != nil {
		return models.Product{}, fmt.Errorf("to sql error: %w", err)
	}

	p, err = scanProduct(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Product{}, err
	}

	return p, nil
}

func (cr CatalogPostgresRepo) ListProducts(ctx context.Context, //nolint:nonamedreturns
	onlyPublished bool,
) (products []models.Product, err error) {
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list products")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sb := psql.Select(productColumns...).
		From("products").
		OrderBy("name ASC")

	if onlyPublished {
		sb = sb.Where(squirrel.Eq{"is_published": true})
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

	products = make([]models.Product, 0, 10) //nolint:gomnd

	for rows.Next() {
		p, errS := scanProduct(rows)
		if errS != nil {
			return nil, errS
		}

		products = append(products, p)
	}

	return products, nil
}

var eventColumns = []string{
	"id", "title", "description", "image_url", "starts_at", "ends_at",
	"is_published", "created_at", "updated_at",
}

func (cr CatalogPostgresRepo) CreateEvent(ctx context.Context, e models.Event) (id int64, err error) { //nolint:nonamedreturns
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create event")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("events").
		Columns("title", "description", "image_url", "starts_at", "ends_at",
			"is_published", "created_at", "updated_at").
		Values(e.Title, e.Description, e.ImageURL, e.StartsAt, e.EndsAt,
			e.Published, e.CreatedAt, e.UpdatedAt).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (cr CatalogPostgresRepo) UpdateEvent(ctx context.Context, e models.Event) (err error) { //nolint:nonamedreturns
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update event")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("events").
		Set("title", e.Title).
		Set("description", e.Description).
		Set("image_url", e.ImageURL).
		Set("starts_at", e.StartsAt).
		Set("ends_at", e.EndsAt).
		Set("is_published", e.Published).
		Set("updated_at", e.UpdatedAt).
		Where(squirrel.Eq{"id": e.ID}).ToSql()
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

func (cr CatalogPostgresRepo) DeleteEvent(ctx context.Context, id int64) (e models.Event, err error) { //nolint:nonamedreturns
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return models.Event{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete event")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("events").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, title, description, image_url, starts_at, ends_at, " +
			"is_published, created_at, updated_at").ToSql()
	if err != nil {
		return models.Event{}, fmt.Errorf("to sql error: %w", err)
	}

	e, err = scanEvent(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Event{}, err
	}

	return e, nil
}

func (cr CatalogPostgresRepo) GetEvent(ctx context.Context, id int64) (e models.Event, err error) { //nolint:nonamedreturns
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return models.Event{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get event")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Event{}, fmt.Errorf("to sql error: %w", err)
	}

	e, err = scanEvent(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Event{}, err
	}

	return e, nil
}

// ListEvents returns events newest-start-first for the admin view; the
// public view keeps only published events that have not ended yet,
// soonest first.
func (cr CatalogPostgresRepo) ListEvents(ctx context.Context, //nolint:nonamedreturns
	publicView bool, now time.Time,
) (events []models.Event, err error) {
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list events")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sb := psql.Select(eventColumns...).From("events")

	if publicView {
		sb = sb.Where(squirrel.Eq{"is_published": true}).
			Where(squirrel.Gt{"ends_at": now}).
			OrderBy("starts_at ASC")
	} else {
		sb = sb.OrderBy("starts_at DESC")
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

	events = make([]models.Event, 0, 10) //nolint:gomnd

	for rows.Next() {
		e, errS := scanEvent(rows)
		if errS != nil {
			return nil, errS
		}

		events = append(events, e)
	}

	return events, nil
}

func (cr CatalogPostgresRepo) Shutdown(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		cr.db.Close()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case <-done:
		return nil
	}
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product

	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.PriceCents,
		&p.ImageURL, &p.Stock, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, apperrors.ErrNotFound
		}

		return models.Product{}, fmt.Errorf("scan error: %w", err)
	}

	return p, nil
}

func scanEvent(row pgx.Row) (models.Event, error) {
	var e models.Event

	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.ImageURL,
		&e.StartsAt, &e.EndsAt, &e.Published, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Event{}, apperrors.ErrNotFound
		}

		return models.Event{}, fmt.Errorf("scan error: %w", err)
	}

	return e, nil
}
