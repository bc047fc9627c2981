package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/softcart/storefront_control/internal/pkg/apperrors"
	"github.com/softcart/storefront_control/internal/pkg/config"
	"github.com/softcart/storefront_control/internal/pkg/pgtools"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
)

type FeedbackPostgresRepo struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, cfg config.PostgresDB) (FeedbackPostgresRepo, error) {
	db, err := pgtools.Connect(ctx, cfg.ConnString())
	if err != nil {
		return FeedbackPostgresRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	return FeedbackPostgresRepo{
		db: db,
	}, nil
}

func (fr FeedbackPostgresRepo) CreateFeedback(ctx context.Context, f models.Feedback) (id int64, err error) { //nolint:nonamedreturns
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create feedback")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("feedback").
		Columns("customer_name", "email", "message", "rating", "is_published", "created_at").
		Values(f.CustomerName, f.Email, f.Message, f.Rating, f.Published, f.CreatedAt).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (fr FeedbackPostgresRepo) SetPublished(ctx context.Context, id int64, published bool) (err error) { //nolint:nonamedreturns
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "set published")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("feedback").
		Set("is_published", published).
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

func (fr FeedbackPostgresRepo) DeleteFeedback(ctx context.Context, id int64) (f models.Feedback, err error) { //nolint:nonamedreturns
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return models.Feedback{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete feedback")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("feedback").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, customer_name, email, message, rating, is_published, created_at").ToSql()
	if err != nil {
		return models.Feedback{}, fmt.Errorf("to sql error: %w", err)
	}

	f, err = scanFeedback(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Feedback{}, err
	}

	return f, nil
}

func (fr FeedbackPostgresRepo) ListFeedback(ctx context.Context, //nolint:nonamedreturns
	onlyPublished bool,
) (items []models.Feedback, err error) {
	tx, err := fr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list feedback")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sb := psql.Select("id", "customer_name", "email", "message", "rating",
		"is_published", "created_at").
		From("feedback").
		OrderBy("created_at DESC")

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

	items = make([]models.Feedback, 0, 10) //nolint:gomnd

	for rows.Next() {
		f, errS := scanFeedback(rows)
		if errS != nil {
			return nil, errS
		}

		items = append(items, f)
	}

	return items, nil
}

func scanFeedback(row pgx.Row) (models.Feedback, error) {
	var f models.Feedback

	err := row.Scan(&f.ID, &f.CustomerName, &f.Email, &f.Message,
		&f.Rating, &f.Published, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Feedback{}, apperrors.ErrNotFound
		}

		return models.Feedback{}, fmt.Errorf("scan error: %w", err)
	}

	return f, nil
}
