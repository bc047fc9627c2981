package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/softcart/storefront_control/internal/pkg/apperrors"
	"github.com/softcart/storefront_control/internal/pkg/config"
	"github.com/softcart/storefront_control/internal/pkg/pgtools"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
)

type UsersPostgresRepo struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, cfg config.PostgresDB) (UsersPostgresRepo, error) {
	db, err := pgtools.Connect(ctx, cfg.ConnString())
	if err != nil {
		return UsersPostgresRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	return UsersPostgresRepo{
		db: db,
	}, nil
}

func (ur UsersPostgresRepo) CreateUser(ctx context.Context, u models.User) (err error) { //nolint:nonamedreturns
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("users").
		Columns("username", "password_hash", "user_role").
		Values(u.Username, u.PasswordHash, u.Role).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	_, err = tx.Exec(ctx, query, args...)
	if err != nil {
		target := new(pgconn.PgError)
		if errors.As(err, &target) {
			switch target.Code { //nolint:gocritic
			case "23505":
				return apperrors.NewConflict("user already exists")
			}
		}

		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}

func (ur UsersPostgresRepo) GetUser(ctx context.Context, username string) (u models.User, err error) { //nolint:nonamedreturns
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id", "username", "password_hash", "user_role").
		From("users").
		Where(squirrel.Eq{"username": username}).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("to sql error: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return u, apperrors.ErrNotFound
		}

		return u, fmt.Errorf("scan error: %w", err)
	}

	return u, nil
}
