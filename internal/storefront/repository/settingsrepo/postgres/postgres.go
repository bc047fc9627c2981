package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/softcart/storefront_control/internal/pkg/config"
	"github.com/softcart/storefront_control/internal/pkg/pgtools"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
)

// SettingsPostgresRepo stores the single general-settings row. The row
// id is fixed; Save upserts it in place.
type SettingsPostgresRepo struct {
	db *pgxpool.Pool
}

const settingsRowID = 1

func New(ctx context.Context, cfg config.PostgresDB) (SettingsPostgresRepo, error) {
	db, err := pgtools.Connect(ctx, cfg.ConnString())
	if err != nil {
		return SettingsPostgresRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	return SettingsPostgresRepo{
		db: db,
	}, nil
}

func (sr SettingsPostgresRepo) GetSettings(ctx context.Context) (s models.Settings, err error) { //nolint:nonamedreturns
	tx, err := sr.db.Begin(ctx)
	if err != nil {
		return models.Settings{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get settings")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("store_name", "support_email", "support_phone",
		"currency", "banner_message", "maintenance_mode", "updated_at").
		From("settings").
		Where(squirrel.Eq{"id": settingsRowID}).ToSql()
	if err != nil {
		return models.Settings{}, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&s.StoreName, &s.SupportEmail,
		&s.SupportPhone, &s.Currency, &s.BannerMessage, &s.MaintenanceMode, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.DefaultSettings(), nil
		}

		return models.Settings{}, fmt.Errorf("scan error: %w", err)
	}

	return s, nil
}

func (sr SettingsPostgresRepo) SaveSettings(ctx context.Context, s models.Settings) (err error) { //nolint:nonamedreturns
	tx, err := sr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "save settings")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("settings").
		Columns("id", "store_name", "support_email", "support_phone",
			"currency", "banner_message", "maintenance_mode", "updated_at").
		Values(settingsRowID, s.StoreName, s.SupportEmail, s.SupportPhone,
			s.Currency, s.BannerMessage, s.MaintenanceMode, s.UpdatedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET " +
			"store_name = EXCLUDED.store_name, support_email = EXCLUDED.support_email, " +
			"support_phone = EXCLUDED.support_phone, currency = EXCLUDED.currency, " +
			"banner_message = EXCLUDED.banner_message, maintenance_mode = EXCLUDED.maintenance_mode, " +
			"updated_at = EXCLUDED.updated_at").ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}
