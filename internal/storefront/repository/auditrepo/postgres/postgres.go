package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/softcart/storefront_control/internal/pkg/config"
	"github.com/softcart/storefront_control/internal/pkg/pgtools"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
)

type AuditPostgresRepo struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, cfg config.PostgresDB) (AuditPostgresRepo, error) {
	db, err := pgtools.Connect(ctx, cfg.ConnString())
	if err != nil {
		return AuditPostgresRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	return AuditPostgresRepo{
		db: db,
	}, nil
}

func (ar AuditPostgresRepo) Record(ctx context.Context, entry models.AuditEntry) (err error) { //nolint:nonamedreturns
	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata error: %w", err)
	}

	tx, err := ar.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "record")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("audit_log").
		Columns("id", "actor", "action", "resource", "resource_id", "metadata", "created_at").
		Values(entry.ID, entry.Actor, entry.Action, entry.Resource,
			entry.ResourceID, metadataJSON, entry.CreatedAt).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}
