package adservice

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
	repo "github.com/softcart/storefront_control/internal/storefront/repository/adrepo"
	"github.com/softcart/storefront_control/pkg/logger"
)

const resourceAd = "advertisement"

type AdService struct {
	adRepo  Repository
	adCache Cache
	audit   Audit
	lg      logger.Logger
}

type Repository interface {
	CreateAd(context.Context, models.Advertisement) (int64, error)
	UpdateAd(context.Context, repo.UpdateRequest) (models.Advertisement, repo.UpdateResult, error)
	Reorder(context.Context, string, []repo.ReorderItem) error
	DeleteAd(context.Context, int64) (models.Advertisement, error)
	ListAds(context.Context, repo.ListRequest) ([]models.Advertisement, error)
	Shutdown(context.Context) error
}

type Cache interface {
	GetPublicAds(ctx context.Context, family string) ([]models.Advertisement, error)
	SetPublicAds(ctx context.Context, family string, ads []models.Advertisement) error
	Invalidate(ctx context.Context) error
}

type Audit interface {
	Record(context.Context, models.AuditEntry) error
}

func New(adRepo Repository, adCache Cache, audit Audit, lg logger.Logger) *AdService {
	return &AdService{
		adRepo:  adRepo,
		adCache: adCache,
		audit:   audit,
		lg:      lg,
	}
}

func (as *AdService) CreateAd(ctx context.Context, req CreateAdRequest) (models.Advertisement, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.BannerImage = strings.TrimSpace(req.BannerImage)
	req.BadgeTitle = strings.TrimSpace(req.BadgeTitle)
	req.DiscountText = strings.TrimSpace(req.DiscountText)
	req.CallToAction = trimCTA(req.CallToAction)

	if msgs := validateCreate(req); len(msgs) != 0 {
		return models.Advertisement{}, apperrors.NewValidation(msgs)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now()
	ad := models.Advertisement{ //nolint:exhaustruct
		Family:       req.Family,
		Position:     req.Position,
		Title:        req.Title,
		BannerImage:  req.BannerImage,
		BadgeTitle:   req.BadgeTitle,
		DiscountText: req.DiscountText,
		CallToAction: req.CallToAction,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := as.adRepo.CreateAd(ctx, ad)
	if err != nil {
		return models.Advertisement{}, fmt.Errorf("create ad error: %w", err)
	}

	ad.ID = id

	as.recordAudit(ctx, req.Actor, models.ActionCreate, id, map[string]interface{}{
		"family":   ad.Family,
		"position": ad.Position,
		"title":    ad.Title,
	})
	as.dropCache(ctx)

	return ad, nil
}

func (as *AdService) UpdateAd(ctx context.Context, req UpdateAdRequest) (UpdateAdResponse, error) {
	req.Title = trimPtr(req.Title)
	req.BannerImage = trimPtr(req.BannerImage)
	req.BadgeTitle = trimPtr(req.BadgeTitle)
	req.DiscountText = trimPtr(req.DiscountText)
	req.CallToAction = trimCTA(req.CallToAction)

	if msgs := validateUpdate(req); len(msgs) != 0 {
		return UpdateAdResponse{}, apperrors.NewValidation(msgs)
	}

	ad, res, err := as.adRepo.UpdateAd(ctx, repo.UpdateRequest{
		ID:           req.ID,
		Position:     req.Position,
		Title:        req.Title,
		BannerImage:  req.BannerImage,
		BadgeTitle:   req.BadgeTitle,
		DiscountText: req.DiscountText,
		Active:       req.Active,
		CallToAction: req.CallToAction,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return UpdateAdResponse{}, apperrors.ErrNotFound
		}

		return UpdateAdResponse{}, fmt.Errorf("update ad error: %w", err)
	}

	metadata := map[string]interface{}{
		"family":   ad.Family,
		"position": ad.Position,
		"swapped":  res.Swapped,
	}
	if res.Swapped {
		metadata["displaced_id"] = res.Displaced.ID
	}

	as.recordAudit(ctx, req.Actor, models.ActionUpdate, req.ID, metadata)
	as.dropCache(ctx)

	return UpdateAdResponse{
		Ad:        ad,
		Swapped:   res.Swapped,
		Displaced: res.Displaced,
	}, nil
}

// Reorder rejects any internally inconsistent assignment up front, so
// the repository only ever sees a valid permutation and can apply it
// in one transaction.
func (as *AdService) Reorder(ctx context.Context, req ReorderRequest) error {
	if msgs := validateReorder(req); len(msgs) != 0 {
		return apperrors.NewValidation(msgs)
	}

	items := make([]repo.ReorderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, repo.ReorderItem{ID: item.ID, Position: item.Position})
	}

	if err := as.adRepo.Reorder(ctx, req.Family, items); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}

		return fmt.Errorf("reorder error: %w", err)
	}

	positions := make(map[string]interface{}, len(req.Items))
	for _, item := range req.Items {
		positions[strconv.FormatInt(item.ID, 10)] = item.Position
	}

	as.recordAudit(ctx, req.Actor, models.ActionReorder, 0, map[string]interface{}{
		"family":    req.Family,
		"positions": positions,
	})
	as.dropCache(ctx)

	return nil
}

func (as *AdService) DeleteAd(ctx context.Context, actor string, id int64) error {
	ad, err := as.adRepo.DeleteAd(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}

		return fmt.Errorf("delete ad error: %w", err)
	}

	as.recordAudit(ctx, actor, models.ActionDelete, id, map[string]interface{}{
		"family":   ad.Family,
		"position": ad.Position,
		"title":    ad.Title,
	})
	as.dropCache(ctx)

	return nil
}

func (as *AdService) ListAds(ctx context.Context, family string) ([]models.Advertisement, error) {
	if family != "" {
		if _, ok := models.MaxPosition(family); !ok {
			return nil, apperrors.NewValidation([]string{"family must be horizontal or vertical"})
		}
	}

	ads, err := as.adRepo.ListAds(ctx, repo.ListRequest{Family: family, OnlyActive: false})
	if err != nil {
		return nil, fmt.Errorf("list ads error: %w", err)
	}

	return ads, nil
}

// PublicAds serves the storefront: active records only, cache first.
func (as *AdService) PublicAds(ctx context.Context, family string) ([]models.Advertisement, error) {
	if family != "" {
		if _, ok := models.MaxPosition(family); !ok {
			return nil, apperrors.NewValidation([]string{"family must be horizontal or vertical"})
		}
	}

	ads, err := as.adCache.GetPublicAds(ctx, family)
	if err == nil {
		return ads, nil
	}

	if !errors.Is(err, apperrors.ErrNotFound) {
		as.lg.Errorf("public ads cache error: %s", err.Error())
	}

	ads, err = as.adRepo.ListAds(ctx, repo.ListRequest{Family: family, OnlyActive: true})
	if err != nil {
		return nil, fmt.Errorf("list ads error: %w", err)
	}

	if err := as.adCache.SetPublicAds(ctx, family, ads); err != nil {
		as.lg.Errorf("set public ads cache error: %s", err.Error())
	}

	return ads, nil
}

func (as *AdService) BackgroundRefresh(ctx context.Context, ttl time.Duration) {
	t := time.NewTicker(ttl)
	defer t.Stop()

	if err := as.refresh(ctx); err != nil {
		as.lg.Errorf("refresh error: %s", err.Error())
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := as.refresh(ctx); err != nil {
				as.lg.Errorf("refresh error: %s", err.Error())
			}
		}
	}
}

func (as *AdService) Shutdown(ctx context.Context) error {
	if err := as.adRepo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown ad repo error: %w", err)
	}

	return nil
}

func (as *AdService) refresh(ctx context.Context) error {
	for _, family := range []string{"", models.FamilyHorizontal, models.FamilyVertical} {
		ads, err := as.adRepo.ListAds(ctx, repo.ListRequest{Family: family, OnlyActive: true})
		if err != nil {
			return fmt.Errorf("list ads error: %w", err)
		}

		if err := as.adCache.SetPublicAds(ctx, family, ads); err != nil {
			return fmt.Errorf("set public ads cache error: %w", err)
		}
	}

	return nil
}

// Audit writes are best effort: the primary mutation has already
// committed, so a sink failure is logged and never surfaced.
func (as *AdService) recordAudit(ctx context.Context, actor, action string, id int64, metadata map[string]interface{}) {
	resourceID := ""
	if id != 0 {
		resourceID = strconv.FormatInt(id, 10)
	}

	entry := models.AuditEntry{
		ID:         uuid.NewString(),
		Actor:      actor,
		Action:     action,
		Resource:   resourceAd,
		ResourceID: resourceID,
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	}

	if err := as.audit.Record(ctx, entry); err != nil {
		as.lg.Errorf("audit record error: %s", err.Error())
	}
}

func (as *AdService) dropCache(ctx context.Context) {
	if err := as.adCache.Invalidate(ctx); err != nil {
		as.lg.Errorf("invalidate ads cache error: %s", err.Error())
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*s)

	return &trimmed
}

func trimCTA(cta *models.CallToAction) *models.CallToAction {
	if cta == nil {
		return nil
	}

	return &models.CallToAction{
		Label: strings.TrimSpace(cta.Label),
		URL:   strings.TrimSpace(cta.URL),
	}
}
