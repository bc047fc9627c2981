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
	repo "github.com/softcart/storefront_control/internal/storefront/repository/adrepo"
)

type AdsPostgresRepo struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, cfg config.PostgresDB) (AdsPostgresRepo, error) {
	db, err := pgtools.Connect(ctx, cfg.ConnString())
	if err != nil {
		return AdsPostgresRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg); err != nil {
		return AdsPostgresRepo{}, fmt.Errorf("apply migration error: %w", err)
	}

	return AdsPostgresRepo{
		db: db,
	}, nil
}

var adColumns = []string{
	"id", "family", "position", "title", "banner_image",
	"badge_title", "discount_text", "call_to_action", "is_active", "created_at", "updated_at",
}

// CreateAd inserts a new advertisement after verifying inside the same
// transaction that its slot is free. Create is strict: an occupied slot
// is a conflict, not a swap.
func (ar AdsPostgresRepo) CreateAd(ctx context.Context, ad models.Advertisement) (id int64, err error) { //nolint:nonamedreturns
	tx, err := ar.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id").
		From("advertisements").
		Where(squirrel.Eq{"family": ad.Family, "position": ad.Position}).
		Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	var occupantID int64

	errOcc := tx.QueryRow(ctx, query, args...).Scan(&occupantID)
	if errOcc == nil {
		return 0, apperrors.NewConflict(
			fmt.Sprintf("position %d in family %s is already occupied", ad.Position, ad.Family))
	} else if !errors.Is(errOcc, pgx.ErrNoRows) {
		return 0, fmt.Errorf("occupancy check error: %w", errOcc)
	}

	ctaJSON, err := marshalCTA(ad.CallToAction)
	if err != nil {
		return 0, err
	}

	query, args, err = psql.Insert("advertisements").
		Columns("family", "position", "title", "banner_image",
			"badge_title", "discount_text", "call_to_action", "is_active", "created_at", "updated_at").
		Values(ad.Family, ad.Position, ad.Title, ad.BannerImage,
			ad.BadgeTitle, ad.DiscountText, ctaJSON, ad.Active, ad.CreatedAt, ad.UpdatedAt).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

// UpdateAd applies a partial update. When the requested position is
// occupied by another record of the same family, that record is moved
// to the updated record's old position within the same transaction, so
// a concurrent update cannot observe a half-done swap.
func (ar AdsPostgresRepo) UpdateAd(ctx context.Context, //nolint:cyclop,funlen
	req repo.UpdateRequest,
) (ad models.Advertisement, res repo.UpdateResult, err error) { //nolint:nonamedreturns
	tx, err := ar.db.Begin(ctx)
	if err != nil {
		return models.Advertisement{}, repo.UpdateResult{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("family", "position").
		From("advertisements").
		Where(squirrel.Eq{"id": req.ID}).
		Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return models.Advertisement{}, repo.UpdateResult{}, fmt.Errorf("to sql error: %w", err)
	}

	var (
		family      string
		oldPosition int
	)

	if err = tx.QueryRow(ctx, query, args...).Scan(&family, &oldPosition); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Advertisement{}, repo.UpdateResult{}, apperrors.ErrNotFound
		}

		return models.Advertisement{}, repo.UpdateResult{}, fmt.Errorf("scan error: %w", err)
	}

	// the family bound is only known once the record is read, so the
	// position range check lives here rather than in the service
	if req.Position != nil {
		maxPos, _ := models.MaxPosition(family)
		if *req.Position > maxPos {
			return models.Advertisement{}, repo.UpdateResult{}, apperrors.NewValidation(
				[]string{fmt.Sprintf("position must be at most %d for family %s", maxPos, family)})
		}
	}

	now := time.Now()

	if req.Position != nil && *req.Position != oldPosition {
		query, args, err = psql.Select("id").
			From("advertisements").
			Where(squirrel.Eq{"family": family, "position": *req.Position}).
			Where(squirrel.NotEq{"id": req.ID}).
			Suffix("FOR UPDATE").ToSql()
		if err != nil {
			return models.Advertisement{}, repo.UpdateResult{}, fmt.Errorf("to sql error: %w", err)
		}

		var occupantID int64

		errOcc := tx.QueryRow(ctx, query, args...).Scan(&occupantID)

		switch {
		case errOcc == nil:
			query, args, err = psql.Update("advertisements").
				Set("position", oldPosition).
				Set("updated_at", now).
				Where(squirrel.Eq{"id": occupantID}).
				Suffix("RETURNING " + joinColumns(adColumns)).ToSql()
			if err != nil {
				return models.Advertisement{}, repo.UpdateResult{}, fmt.Errorf("to sql error: %w", err)
			}

			displaced, errS := scanAd(tx.QueryRow(ctx, query, args...))
			if errS != nil {
				return models.Advertisement{}, repo.UpdateResult{}, fmt.Errorf("swap error: %w", errS)
			}

			res.Swapped = true
			res.Displaced = &displaced
		case errors.Is(errOcc, pgx.ErrNoRows):
			// target slot is free, plain move
		default:
			return models.Advertisement{}, repo.UpdateResult{}, fmt.Errorf("occupant lookup error: %w", errOcc)
		}
	}

	ub := psql.Update("advertisements").
		Set("updated_at", now).
		Where(squirrel.Eq{"id": req.ID})

	if req.Position != nil {
		ub = ub.Set("position", *req.Position)
	}

	if req.Title != nil {
		ub = ub.Set("title", *req.Title)
	}

	if req.BannerImage != nil {
		ub = ub.Set("banner_image", *req.BannerImage)
	}

	if req.BadgeTitle != nil {
		ub = ub.Set("badge_title", *req.BadgeTitle)
	}

	if req.DiscountText != nil {
		ub = ub.Set("discount_text", *req.DiscountText)
	}

	if req.Active != nil {
		ub = ub.Set("is_active", *req.Active)
	}

	if req.CallToAction != nil {
		ctaJSON, errM := marshalCTA(req.CallToAction)
		if errM != nil {
			return models.Advertisement{}, repo.UpdateResult{}, errM
		}

		ub = ub.Set("call_to_action", ctaJSON)
	}

	query, args, err = ub.Suffix("RETURNING " + joinColumns(adColumns)).ToSql()
	if err != nil {
		return models.Advertisement{}, repo.UpdateResult{}, fmt.Errorf("to sql error: %w", err)
	}

	ad, err = scanAd(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Advertisement{}, repo.UpdateResult{}, err
	}

	return ad, res, nil
}

// Reorder merges the requested moves over the family's current
// assignment and applies them in one transaction. The merged assignment
// must still map one record per slot, so a partial request cannot land
// two records on the same position; any missing or foreign-family id
// aborts the batch.
func (ar AdsPostgresRepo) Reorder(ctx context.Context, family string, items []repo.ReorderItem) (err error) { //nolint:nonamedreturns
	tx, err := ar.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "reorder")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id", "position").
		From("advertisements").
		Where(squirrel.Eq{"family": family}).
		Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query error: %w", err)
	}

	assignment := make(map[int64]int)

	for rows.Next() {
		var (
			id  int64
			pos int
		)

		if err = rows.Scan(&id, &pos); err != nil {
			rows.Close()

			return fmt.Errorf("scan error: %w", err)
		}

		assignment[id] = pos
	}

	rows.Close()

	for _, item := range items {
		if _, ok := assignment[item.ID]; !ok {
			return fmt.Errorf("advertisement %d: %w", item.ID, apperrors.ErrNotFound)
		}

		assignment[item.ID] = item.Position
	}

	occupied := make(map[int]int64, len(assignment))

	for id, pos := range assignment {
		if _, ok := occupied[pos]; ok {
			return apperrors.NewValidation(
				[]string{fmt.Sprintf("position %d would hold more than one advertisement", pos)})
		}

		occupied[pos] = id
	}

	now := time.Now()

	for _, item := range items {
		query, args, errQ := psql.Update("advertisements").
			Set("position", item.Position).
			Set("updated_at", now).
			Where(squirrel.Eq{"id": item.ID, "family": family}).ToSql()
		if errQ != nil {
			return fmt.Errorf("to sql error: %w", errQ)
		}

		if _, errE := tx.Exec(ctx, query, args...); errE != nil {
			return fmt.Errorf("exec error: %w", errE)
		}
	}

	return nil
}

// DeleteAd removes the record and returns its pre-delete snapshot for
// the audit trail.
func (ar AdsPostgresRepo) DeleteAd(ctx context.Context, id int64) (ad models.Advertisement, err error) { //nolint:nonamedreturns
	tx, err := ar.db.Begin(ctx)
	if err != nil {
		return models.Advertisement{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("advertisements").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(adColumns)).ToSql()
	if err != nil {
		return models.Advertisement{}, fmt.Errorf("to sql error: %w", err)
	}

	ad, err = scanAd(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Advertisement{}, apperrors.ErrNotFound
		}

		return models.Advertisement{}, err
	}

	return ad, nil
}

func (ar AdsPostgresRepo) ListAds(ctx context.Context, //nolint:nonamedreturns
	req repo.ListRequest,
) (ads []models.Advertisement, err error) {
	tx, err := ar.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sb := psql.Select(adColumns...).
		From("advertisements").
		OrderBy("family ASC", "position ASC")

	if req.Family != "" {
		sb = sb.Where(squirrel.Eq{"family": req.Family})
	}

	if req.OnlyActive {
		sb = sb.Where(squirrel.Eq{"is_active": true})
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

	ads = make([]models.Advertisement, 0, models.MaxHorizontalPosition+models.MaxVerticalPosition)

	for rows.Next() {
		ad, errS := scanAd(rows)
		if errS != nil {
			return nil, errS
		}

		ads = append(ads, ad)
	}

	return ads, nil
}

func (ar AdsPostgresRepo) Shutdown(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		ar.db.Close()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case <-done:
		return nil
	}
}

func scanAd(row pgx.Row) (models.Advertisement, error) {
	var (
		ad      models.Advertisement
		ctaJSON []byte
	)

	err := row.Scan(&ad.ID, &ad.Family, &ad.Position, &ad.Title, &ad.BannerImage,
		&ad.BadgeTitle, &ad.DiscountText, &ctaJSON, &ad.Active, &ad.CreatedAt, &ad.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Advertisement{}, apperrors.ErrNotFound
		}

		return models.Advertisement{}, fmt.Errorf("scan error: %w", err)
	}

	if len(ctaJSON) != 0 {
		var cta models.CallToAction
		if err := json.Unmarshal(ctaJSON, &cta); err != nil {
			return models.Advertisement{}, fmt.Errorf("unmarshal error: %w", err)
		}

		ad.CallToAction = &cta
	}

	return ad, nil
}

func marshalCTA(cta *models.CallToAction) ([]byte, error) {
	if cta == nil {
		return nil, nil
	}

	b, err := json.Marshal(cta)
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	return b, nil
}

func joinColumns(cols []string) string {
	out := cols[0]
	for _, c := range cols[1:] {
		out += ", " + c
	}

	return out
}
