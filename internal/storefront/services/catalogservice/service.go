package catalogservice

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

const (
	resourceProduct = "product"
	resourceEvent   = "event"
)

type CatalogService struct {
	catalogRepo Repository
	audit       Audit
	lg          logger.Logger
}

type Repository interface {
	CreateProduct(context.Context, models.Product) (int64, error)
	UpdateProduct(context.Context, models.Product) error
	DeleteProduct(context.Context, int64) (models.Product, error)
	GetProduct(context.Context, int64) (models.Product, error)
	GetProductBySlug(context.Context, string) (models.Product, error)
	ListProducts(context.Context, bool) ([]models.Product, error)
	CreateEvent(context.Context, models.Event) (int64, error)
	UpdateEvent(context.Context, models.Event) error
	DeleteEvent(context.Context, int64) (models.Event, error)
	GetEvent(context.Context, int64) (models.Event, error)
	ListEvents(context.Context, bool, time.Time) ([]models.Event, error)
	Shutdown(context.Context) error
}

type Audit interface {
	Record(context.Context, models.AuditEntry) error
}

func New(catalogRepo Repository, audit Audit, lg logger.Logger) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		audit:       audit,
		lg:          lg,
	}
}

func (cs *CatalogService) CreateProduct(ctx context.Context, req ProductRequest) (models.Product, error) {
	p, msgs := productFromRequest(req)
	if len(msgs) != 0 {
		return models.Product{}, apperrors.NewValidation(msgs)
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	id, err := cs.catalogRepo.CreateProduct(ctx, p)
	if err != nil {
		return models.Product{}, fmt.Errorf("create product error: %w", err)
	}

	p.ID = id

	cs.recordAudit(ctx, req.Actor, models.ActionCreate, resourceProduct, id, map[string]interface{}{
		"name": p.Name,
		"slug": p.Slug,
	})

	return p, nil
}

func (cs *CatalogService) UpdateProduct(ctx context.Context, req ProductRequest) (models.Product, error) {
	p, msgs := productFromRequest(req)
	if len(msgs) != 0 {
		return models.Product{}, apperrors.NewValidation(msgs)
	}

	p.ID = req.ID
	p.UpdatedAt = time.Now()

	if err := cs.catalogRepo.UpdateProduct(ctx, p); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.Product{}, apperrors.ErrNotFound
		}

		return models.Product{}, fmt.Errorf("update product error: %w", err)
	}

	cs.recordAudit(ctx, req.Actor, models.ActionUpdate, resourceProduct, p.ID, map[string]interface{}{
		"name": p.Name,
		"slug": p.Slug,
	})

	return p, nil
}

func (cs *CatalogService) DeleteProduct(ctx context.Context, actor string, id int64) error {
	p, err := cs.catalogRepo.DeleteProduct(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}

		return fmt.Errorf("delete product error: %w", err)
	}

	cs.recordAudit(ctx, actor, models.ActionDelete, resourceProduct, id, map[string]interface{}{
		"name": p.Name,
		"slug": p.Slug,
	})

	return nil
}

func (cs *CatalogService) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	p, err := cs.catalogRepo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.Product{}, apperrors.ErrNotFound
		}

		return models.Product{}, fmt.Errorf("get product error: %w", err)
	}

	return p, nil
}

// PublicProduct resolves a storefront URL slug; unpublished products
// stay hidden even when the slug is known.
func (cs *CatalogService) PublicProduct(ctx context.Context, slug string) (models.Product, error) {
	p, err := cs.catalogRepo.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.Product{}, apperrors.ErrNotFound
		}

		return models.Product{}, fmt.Errorf("get product error: %w", err)
	}

	if !p.Published {
		return models.Product{}, apperrors.ErrNotFound
	}

	return p, nil
}

func (cs *CatalogService) ListProducts(ctx context.Context, publicView bool) ([]models.Product, error) {
	products, err := cs.catalogRepo.ListProducts(ctx, publicView)
	if err != nil {
		return nil, fmt.Errorf("list products error: %w", err)
	}

	return products, nil
}

func (cs *CatalogService) CreateEvent(ctx context.Context, req EventRequest) (models.Event, error) {
	e, msgs := eventFromRequest(req)
	if len(msgs) != 0 {
		return models.Event{}, apperrors.NewValidation(msgs)
	}

	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	id, err := cs.catalogRepo.CreateEvent(ctx, e)
	if err != nil {
		return models.Event{}, fmt.Errorf("create event error: %w", err)
	}

	e.ID = id

	cs.recordAudit(ctx, req.Actor, models.ActionCreate, resourceEvent, id, map[string]interface{}{
		"title": e.Title,
	})

	return e, nil
}

func (cs *CatalogService) UpdateEvent(ctx context.Context, req EventRequest) (models.Event, error) {
	e, msgs := eventFromRequest(req)
	if len(msgs) != 0 {
		return models.Event{}, apperrors.NewValidation(msgs)
	}

	e.ID = req.ID
	e.UpdatedAt = time.Now()

	if err := cs.catalogRepo.UpdateEvent(ctx, e); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.Event{}, apperrors.ErrNotFound
		}

		return models.Event{}, fmt.Errorf("update event error: %w", err)
	}

	cs.recordAudit(ctx, req.Actor, models.ActionUpdate, resourceEvent, e.ID, map[string]interface{}{
		"title": e.Title,
	})

	return e, nil
}

func (cs *CatalogService) DeleteEvent(ctx context.Context, actor string, id int64) error {
	e, err := cs.catalogRepo.DeleteEvent(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}

		return fmt.Errorf("delete event error: %w", err)
	}

	cs.recordAudit(ctx, actor, models.ActionDelete, resourceEvent, id, map[string]interface{}{
		"title": e.Title,
	})

	return nil
}

func (cs *CatalogService) ListEvents(ctx context.Context, publicView bool) ([]models.Event, error) {
	events, err := cs.catalogRepo.ListEvents(ctx, publicView, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list events error: %w", err)
	}

	return events, nil
}

func (cs *CatalogService) Shutdown(ctx context.Context) error {
	if err := cs.catalogRepo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown catalog repo error: %w", err)
	}

	return nil
}

func productFromRequest(req ProductRequest) (models.Product, []string) {
	var msgs []string

	name := strings.TrimSpace(req.Name)
	slug := strings.TrimSpace(req.Slug)
	imageURL := strings.TrimSpace(req.ImageURL)

	if name == "" {
		msgs = append(msgs, "name must not be empty")
	}

	if slug == "" {
		msgs = append(msgs, "slug must not be empty")
	}

	if imageURL == "" {
		msgs = append(msgs, "image url must not be empty")
	}

	if req.PriceCents < 0 {
		msgs = append(msgs, "price must not be negative")
	}

	if req.Stock < 0 {
		msgs = append(msgs, "stock must not be negative")
	}

	return models.Product{ //nolint:exhaustruct
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
		PriceCents:  req.PriceCents,
		ImageURL:    imageURL,
		Stock:       req.Stock,
		Published:   req.Published,
	}, msgs
}

func eventFromRequest(req EventRequest) (models.Event, []string) {
	var msgs []string

	title := strings.TrimSpace(req.Title)
	imageURL := strings.TrimSpace(req.ImageURL)

	if title == "" {
		msgs = append(msgs, "title must not be empty")
	}

	if imageURL == "" {
		msgs = append(msgs, "image url must not be empty")
	}

	if !req.EndsAt.After(req.StartsAt) {
		msgs = append(msgs, "event must end after it starts")
	}

	return models.Event{ //nolint:exhaustruct
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		ImageURL:    imageURL,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Published:   req.Published,
	}, msgs
}

func (cs *CatalogService) recordAudit(ctx context.Context,
	actor, action, resource string, id int64, metadata map[string]interface{},
) {
	entry := models.AuditEntry{
		ID:         uuid.NewString(),
		Actor:      actor,
		Action:     action,
		Resource:   resource,
		ResourceID: strconv.FormatInt(id, 10),
		Metadata:   metadata,
		CreatedAt:  time.Now(),
	}

	if err := cs.audit.Record(ctx, entry); err != nil {
		cs.lg.Errorf("audit record error: %s", err.Error())
	}
}
